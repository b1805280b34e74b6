package hwio

import (
	"fmt"
	"math/bits"
)

// Field is a group of contiguous bits within a 32-bit register word. Mask
// selects the bits in place, Shift is the position of the lowest bit. Min and
// Max bound the values the hardware accepts; Max is at most Bound().
type Field struct {
	Name  string
	Mask  uint32
	Shift uint
	Min   uint32
	Max   uint32
}

// Flag returns a single-bit field.
func Flag(name string, bit uint) Field {
	return Field{Name: name, Mask: 1 << bit, Shift: bit, Max: 1}
}

// Bits returns a field of width bits starting at shift, accepting its whole
// range.
func Bits(name string, shift, width uint) Field {
	bound := uint32(1)<<width - 1
	return Field{Name: name, Mask: bound << shift, Shift: shift, Max: bound}
}

// Bound is the largest value that fits in the field.
func (f Field) Bound() uint32 { return f.Mask >> f.Shift }

// Width is the number of bits of the field.
func (f Field) Width() int { return bits.OnesCount32(f.Mask) }

// Get extracts the field value from word.
func (f Field) Get(word uint32) uint32 { return (word & f.Mask) >> f.Shift }

// Encode places v in position. Bits of v not fitting the field are dropped.
func (f Field) Encode(v uint32) uint32 { return (v << f.Shift) & f.Mask }

// Set returns word with the field replaced by v.
func (f Field) Set(word, v uint32) uint32 { return word&^f.Mask | f.Encode(v) }

// Valid reports whether v is within the field legal range.
func (f Field) Valid(v uint32) bool { return v >= f.Min && v <= f.Max }

// Check verifies the field is well-formed: a non-empty contiguous mask
// starting at Shift, and a legal range fitting in it.
func (f Field) Check() error {
	if f.Mask == 0 {
		return fmt.Errorf("field %s: empty mask", f.Name)
	}
	if uint(bits.TrailingZeros32(f.Mask)) != f.Shift {
		return fmt.Errorf("field %s: mask %08x does not start at bit %d", f.Name, f.Mask, f.Shift)
	}
	if b := f.Bound(); b&(b+1) != 0 {
		return fmt.Errorf("field %s: mask %08x is not contiguous", f.Name, f.Mask)
	}
	if f.Min > f.Max || f.Max > f.Bound() {
		return fmt.Errorf("field %s: range [%#x,%#x] does not fit mask %08x", f.Name, f.Min, f.Max, f.Mask)
	}
	return nil
}

// Layout describes the fields of a register word.
type Layout struct {
	Name   string
	Offset uint32
	Fields []Field
}

// Field returns the field with the given name.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Mask is the union of all field masks.
func (l Layout) Mask() uint32 {
	var m uint32
	for _, f := range l.Fields {
		m |= f.Mask
	}
	return m
}

// Check verifies every field and that no two fields share a bit.
func (l Layout) Check() error {
	var seen uint32
	for i, f := range l.Fields {
		if err := f.Check(); err != nil {
			return fmt.Errorf("%s: %w", l.Name, err)
		}
		if seen&f.Mask != 0 {
			for _, g := range l.Fields[:i] {
				if g.Mask&f.Mask != 0 {
					return fmt.Errorf("%s: fields %s and %s overlap (%08x)", l.Name, g.Name, f.Name, g.Mask&f.Mask)
				}
			}
		}
		seen |= f.Mask
	}
	return nil
}

// FieldValue is a decoded field.
type FieldValue struct {
	Field
	Value uint32
}

func (fv FieldValue) String() string {
	return fmt.Sprintf("%s=%#x", fv.Name, fv.Value)
}

// Decode splits word into its fields, in layout order.
func (l Layout) Decode(word uint32) []FieldValue {
	out := make([]FieldValue, len(l.Fields))
	for i, f := range l.Fields {
		out[i] = FieldValue{Field: f, Value: f.Get(word)}
	}
	return out
}

// Encode builds a register word from field values. Unknown field names and
// values outside the legal range are reported as errors.
func (l Layout) Encode(values map[string]uint32) (uint32, error) {
	var word uint32
	for name, v := range values {
		f, ok := l.Field(name)
		if !ok {
			return 0, fmt.Errorf("%s: unknown field %q", l.Name, name)
		}
		if !f.Valid(v) {
			return 0, fmt.Errorf("%s: %s value %#x out of range [%#x,%#x]", l.Name, name, v, f.Min, f.Max)
		}
		word = f.Set(word, v)
	}
	return word, nil
}
