package aica

import (
	"fmt"

	"aica/hw/hwio"
)

// DSP instruction fields, per 16-bit bank. This layout is reverse-engineered
// and incomplete: it is enough to decode or patch existing programs, not to
// describe what they do.
var DSPBanks = [4]hwio.Layout{
	{Name: "dsp-bank0", Fields: []hwio.Field{
		hwio.Bits("twa", 1, 7),
		hwio.Flag("twt", 8),
		hwio.Bits("tra", 9, 7),
	}},
	{Name: "dsp-bank1", Fields: []hwio.Field{
		hwio.Bits("iwa", 1, 5),
		hwio.Flag("iwt", 6),
		hwio.Bits("ira", 7, 6),
		hwio.Bits("ysel", 13, 2),
		hwio.Flag("xsel", 15),
	}},
	{Name: "dsp-bank2", Fields: []hwio.Field{
		hwio.Flag("bsel", 0),
		hwio.Flag("zero", 1),
		hwio.Flag("negb", 2),
		hwio.Flag("yrl", 3),
		hwio.Bits("shift", 4, 2),
		hwio.Flag("frcl", 6),
		hwio.Flag("adrl", 7),
		hwio.Bits("ewa", 8, 4),
		hwio.Flag("ewt", 12),
		hwio.Flag("mrd", 13),
		hwio.Flag("mwt", 14),
		hwio.Flag("table", 15),
	}},
	{Name: "dsp-bank3", Fields: []hwio.Field{
		hwio.Flag("nxadr", 7),
		hwio.Flag("adreb", 8),
		hwio.Bits("masa", 9, 6), // also known as coef
		hwio.Flag("nofl", 15),
	}},
}

// DSPInstruction is a DSP instruction split in its four 16-bit banks.
type DSPInstruction [4]uint16

func lookupDSPField(name string) (int, hwio.Field, bool) {
	if name == "coef" {
		name = "masa"
	}
	for bank, l := range DSPBanks {
		if f, ok := l.Field(name); ok {
			return bank, f, true
		}
	}
	return 0, hwio.Field{}, false
}

// Get returns the value of the named field.
func (in DSPInstruction) Get(name string) (uint32, bool) {
	bank, f, ok := lookupDSPField(name)
	if !ok {
		return 0, false
	}
	return f.Get(uint32(in[bank])), true
}

// Set replaces the value of the named field.
func (in *DSPInstruction) Set(name string, v uint32) error {
	bank, f, ok := lookupDSPField(name)
	if !ok {
		return fmt.Errorf("unknown dsp field %q", name)
	}
	if !f.Valid(v) {
		return fmt.Errorf("dsp field %s: value %#x out of range", name, v)
	}
	in[bank] = uint16(f.Set(uint32(in[bank]), v))
	return nil
}

// Fields decodes every known field of the instruction, bank by bank.
func (in DSPInstruction) Fields() []hwio.FieldValue {
	var out []hwio.FieldValue
	for bank, l := range DSPBanks {
		out = append(out, l.Decode(uint32(in[bank]))...)
	}
	return out
}
