package hwio

import (
	"encoding/binary"

	"aica/log"
)

// mem is the main structure used for linear memory access.
//
// We use this structure by pointer rather than by value because it is stored
// as BankIO32 interface within Table, and checking if a concrete pointer type
// is behind the interface is faster than checking a non-pointer type.
type mem struct {
	name string
	buf  []byte
	mask uint32
	wcb  func(uint32, uint32)
	ro   MemFlags
}

func newMem(name string, buf []byte, wcb func(uint32, uint32), roflag MemFlags) *mem {
	if len(buf) < 4 || len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		name: name,
		buf:  buf,
		mask: uint32(len(buf)-1) &^ 3,
		wcb:  wcb,
		ro:   roflag,
	}
}

// Accesses are word aligned: the two low address bits are ignored.
func (m *mem) Read32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(m.buf[addr&m.mask:])
}

func (m *mem) Write32(addr uint32, val uint32) {
	if m.wcb != nil {
		m.wcb(addr, val)
		return
	}

	switch m.ro {
	case MemFlagReadWrite:
		binary.LittleEndian.PutUint32(m.buf[addr&m.mask:], val)
	case MemFlag32ReadOnly:
		log.ModHwIo.ErrorZ("Write32 to readonly memory").
			String("name", m.name).
			Hex32("val", val).
			Hex32("addr", addr).
			End()
	}
}

type MemFlags int

const (
	MemFlagReadWrite  MemFlags = 0
	MemFlag32ReadOnly MemFlags = (1 << iota) // read-only accesses
)

// Linear memory area that can be mapped into a Table.
//
// NOTE: this structure does not directly implement the BankIO32 interface;
// clients call BankIO32 to create an adaptor that implements memory access
// depending on the memory configuration.
type Mem struct {
	Name    string               // name of the memory area (for debugging)
	Data    []byte               // actual memory buffer
	VSize   int                  // virtual size of the memory (can be bigger than physical size)
	Flags   MemFlags             // flags determining how the memory can be accessed
	WriteCb func(uint32, uint32) // optional write callback (if set, the callback is called instead of writing)
}

func (m *Mem) BankIO32() BankIO32 {
	return newMem(m.Name, m.Data, m.WriteCb, m.Flags)
}

// Word returns the value of the 32-bit word at byte offset off.
func (m *Mem) Word(off uint32) uint32 {
	return binary.LittleEndian.Uint32(m.Data[off&^3:])
}
