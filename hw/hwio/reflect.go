package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type bankReg struct {
	offset uint32
	regPtr any
}

type regTag struct {
	offset    uint32
	hasOffset bool
	bank      int
	reset     uint32
	rwmask    uint32
	hasRWMask bool
	size      int
	vsize     int
	readonly  bool
	writeonly bool
	rcb       string
	wcb       string
}

func parseUint32(key, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, s, err)
	}
	return uint32(v), nil
}

func parseTag(field string, tag string) (regTag, error) {
	var rt regTag
	for _, opt := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		var err error
		switch key {
		case "":
		case "offset":
			rt.offset, err = parseUint32(key, val)
			rt.hasOffset = true
		case "bank":
			rt.bank, err = strconv.Atoi(val)
		case "reset":
			rt.reset, err = parseUint32(key, val)
		case "rwmask":
			rt.rwmask, err = parseUint32(key, val)
			rt.hasRWMask = true
		case "size", "vsize":
			var v uint32
			v, err = parseUint32(key, val)
			if key == "size" {
				rt.size = int(v)
			} else {
				rt.vsize = int(v)
			}
		case "readonly":
			rt.readonly = true
		case "writeonly":
			rt.writeonly = true
		case "rcb":
			rt.rcb = val
			if val == "" {
				rt.rcb = "Read" + strings.ToUpper(field)
			}
		case "wcb":
			rt.wcb = val
			if val == "" {
				rt.wcb = "Write" + strings.ToUpper(field)
			}
		default:
			err = fmt.Errorf("unknown option %q", key)
		}
		if err != nil {
			return rt, fmt.Errorf("field %s: %w", field, err)
		}
	}
	return rt, nil
}

func (rt regTag) flags() RWFlags {
	var f RWFlags
	if rt.readonly {
		f |= ReadOnlyFlag
	}
	if rt.writeonly {
		f |= WriteOnlyFlag
	}
	return f
}

func method[F any](v reflect.Value, name string) (F, error) {
	var zero F
	m := v.MethodByName(name)
	if !m.IsValid() {
		return zero, fmt.Errorf("missing callback method %s", name)
	}
	f, ok := m.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("callback %s has type %s, want %T", name, m.Type(), zero)
	}
	return f, nil
}

// InitRegs initializes all the Reg32 and Mem fields of the structure
// pointed by data, following their "hwio" struct tags: names, reset values,
// write masks, access flags and callbacks. Callbacks are methods of data,
// named after the rcb/wcb option or, when left empty, ReadFIELD/WriteFIELD
// with the field name in upper case.
func InitRegs(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("InitRegs: want pointer to struct, got %T", data)
	}
	s := v.Elem()
	st := s.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(sf.Name, tag)
		if err != nil {
			return err
		}

		switch r := s.Field(i).Addr().Interface().(type) {
		case *Reg32:
			r.Name = sf.Name
			r.Value = rt.reset
			r.Flags = rt.flags()
			if rt.hasRWMask {
				r.RoMask = ^rt.rwmask
			}
			if rt.rcb != "" {
				if r.ReadCb, err = method[func(uint32) uint32](v, rt.rcb); err != nil {
					return err
				}
			}
			if rt.wcb != "" {
				if r.WriteCb, err = method[func(uint32, uint32)](v, rt.wcb); err != nil {
					return err
				}
			}
		case *Mem:
			if rt.size == 0 {
				return fmt.Errorf("field %s: Mem requires size", sf.Name)
			}
			r.Name = sf.Name
			r.Data = make([]byte, rt.size)
			r.VSize = rt.size
			if rt.vsize != 0 {
				r.VSize = rt.vsize
			}
			if rt.readonly {
				r.Flags = MemFlag32ReadOnly
			}
			if rt.wcb != "" {
				if r.WriteCb, err = method[func(uint32, uint32)](v, rt.wcb); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("field %s: unsupported type %s", sf.Name, sf.Type)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bank: want pointer to struct, got %T", bank)
	}
	s := v.Elem()
	st := s.Type()

	var regs []bankReg
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(sf.Name, tag)
		if err != nil {
			return nil, err
		}
		if !rt.hasOffset || rt.bank != bankNum {
			continue
		}
		regs = append(regs, bankReg{
			offset: rt.offset,
			regPtr: s.Field(i).Addr().Interface(),
		})
	}
	return regs, nil
}
