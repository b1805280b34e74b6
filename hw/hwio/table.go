package hwio

import (
	"fmt"
	"sort"

	"aica/log"
)

// log unmapped accesses (useful for debugging, a real AICA silently ignores
// them)
const logUnmapped = true

type BankIO32 interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, val uint32)
}

type mapping struct {
	begin, end uint32 // inclusive
	io         BankIO32
}

// Table dispatches 32-bit accesses to the register, memory or device mapped
// at the accessed address. It is not safe for concurrent use.
type Table struct {
	Name string

	// Unmapped, if set, receives accesses to addresses that nothing is mapped
	// to.
	Unmapped BankIO32

	maps []mapping // sorted by begin, non overlapping
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.maps = nil
}

// Map a register bank (that is, a structure containing multiple Reg32 or Mem
// fields). For this function to work, registers must have a struct
// tag "hwio", containing the following fields:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specified the
//	                bank number.
func (t *Table) MapBank(addr uint32, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg32:
			t.MapReg32(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus32(addr, size uint32, io BankIO32) {
	if size == 0 {
		panic(fmt.Errorf("%s: empty mapping at %08x", t.Name, addr))
	}
	end := addr + size - 1
	i := sort.Search(len(t.maps), func(i int) bool { return t.maps[i].end >= addr })
	if i < len(t.maps) && t.maps[i].begin <= end {
		panic(fmt.Errorf("%s: mapping [%08x-%08x] overlaps [%08x-%08x]",
			t.Name, addr, end, t.maps[i].begin, t.maps[i].end))
	}
	t.maps = append(t.maps, mapping{})
	copy(t.maps[i+1:], t.maps[i:])
	t.maps[i] = mapping{begin: addr, end: end, io: io}
}

func (t *Table) MapReg32(addr uint32, io *Reg32) {
	t.mapBus32(addr, 4, io)
}

func (t *Table) MapMem(addr uint32, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex32("addr", addr).
		Hex32("size", uint32(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	if len(mem.Data)&(len(mem.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}

	t.mapBus32(addr, uint32(mem.VSize), mem.BankIO32())
}

func (t *Table) search(addr uint32) BankIO32 {
	i := sort.Search(len(t.maps), func(i int) bool { return t.maps[i].end >= addr })
	if i < len(t.maps) && t.maps[i].begin <= addr {
		return t.maps[i].io
	}
	return nil
}

// Read32 searches in the table for the device mapped at the given address and
// forward the read to it.
func (t *Table) Read32(addr uint32) uint32 {
	io := t.search(addr)
	if io == nil {
		if t.Unmapped != nil {
			return t.Unmapped.Read32(addr)
		}
		if logUnmapped {
			log.ModHwIo.WarnZ("unmapped Read32").
				String("name", t.Name).
				Hex32("addr", addr).
				End()
		}
		return 0
	}
	return io.Read32(addr)
}

func (t *Table) Write32(addr uint32, val uint32) {
	io := t.search(addr)
	if io == nil {
		if t.Unmapped != nil {
			t.Unmapped.Write32(addr, val)
			return
		}
		if logUnmapped {
			log.ModHwIo.WarnZ("unmapped Write32").
				String("name", t.Name).
				Hex32("addr", addr).
				Hex32("val", val).
				End()
		}
		return
	}
	io.Write32(addr, val)
}
