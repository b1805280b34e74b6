package main

import (
	"io"

	"github.com/go-faster/jx"

	"aica/hw/aica"
	"aica/hw/hwio"
)

func encodeFields(e *jx.Encoder, fields []hwio.Field) {
	e.ArrStart()
	for _, f := range fields {
		e.ObjStart()
		e.FieldStart("name")
		e.Str(f.Name)
		e.FieldStart("mask")
		e.UInt32(f.Mask)
		e.FieldStart("shift")
		e.UInt(f.Shift)
		e.FieldStart("min")
		e.UInt32(f.Min)
		e.FieldStart("max")
		e.UInt32(f.Max)
		e.ObjEnd()
	}
	e.ArrEnd()
}

// listRegsJSON writes the register map as a JSON array.
func listRegsJSON(w io.Writer) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.SetIdent(2)

	e.ArrStart()
	for _, r := range aica.Registers {
		e.ObjStart()
		e.FieldStart("name")
		e.Str(r.Name)
		e.FieldStart("scope")
		e.Str(r.Scope.String())
		e.FieldStart("offset")
		e.UInt32(r.Offset)
		e.FieldStart("count")
		e.Int(r.Scope.Count())
		e.FieldStart("fields")
		encodeFields(e, r.Fields)
		e.ObjEnd()
	}
	e.ArrEnd()

	_, err := w.Write(append(e.Bytes(), '\n'))
	return err
}

// writeDecodedJSON writes val split in the fields of l. addr, if not nil, is
// the address val was read from.
func writeDecodedJSON(w io.Writer, l hwio.Layout, val uint32, addr *uint32) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.SetIdent(2)

	e.ObjStart()
	e.FieldStart("register")
	e.Str(l.Name)
	if addr != nil {
		e.FieldStart("addr")
		e.UInt32(*addr)
	}
	e.FieldStart("value")
	e.UInt32(val)
	e.FieldStart("fields")
	e.ObjStart()
	for _, fv := range l.Decode(val) {
		e.FieldStart(fv.Name)
		e.UInt32(fv.Value)
	}
	e.ObjEnd()
	e.ObjEnd()

	_, err := w.Write(append(e.Bytes(), '\n'))
	return err
}
