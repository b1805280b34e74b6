// Package mmio provides 32-bit loads and stores to memory-mapped hardware.
//
// Every access goes through sync/atomic: the compiler can neither elide,
// merge, cache nor reorder them, and a 32-bit access is never split. This is
// what hardware registers need, plain pointer dereferences give none of these
// guarantees.
package mmio

import (
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/go-faster/errors"
	"golang.org/x/sys/unix"

	"aica/log"
)

// Window is a mapping of a physical address range, typically through
// /dev/mem. Register addresses passed to Read32/Write32 are bus addresses: the
// window translates them by subtracting Base.
type Window struct {
	Base uint32 // bus address of the first mapped byte

	mem   []byte
	file  *os.File
	owned bool // mem was mapped by Open and must be unmapped by Close
}

// Open maps size bytes of the file at path (usually /dev/mem) starting at the
// physical offset phys. Accesses are made at bus addresses starting at base.
func Open(path string, phys int64, base uint32, size int) (*Window, error) {
	pagesz := int64(os.Getpagesize())
	if phys%pagesz != 0 {
		return nil, errors.Errorf("physical offset %#x is not page aligned", phys)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	mem, err := unix.Mmap(int(f.Fd()), phys, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "mmap %s at %#x", path, phys)
	}

	log.ModMMIO.InfoZ("mapped window").
		String("path", path).
		Hex32("phys", uint32(phys)).
		Hex32("base", base).
		Int("size", size).
		End()

	return &Window{Base: base, mem: mem, file: f, owned: true}, nil
}

// NewWindow wraps an existing memory area, for instance an anonymous
// mapping. The caller keeps ownership of mem.
func NewWindow(mem []byte, base uint32) *Window {
	return &Window{Base: base, mem: mem}
}

// Size returns the number of mapped bytes.
func (w *Window) Size() int { return len(w.mem) }

func (w *Window) word(addr uint32) *uint32 {
	off := addr - w.Base
	if off&3 != 0 {
		panic(errors.Errorf("mmio: unaligned access at %#08x", addr))
	}
	// Indexing the last byte of the word does the bounds check.
	_ = w.mem[off+3]
	return (*uint32)(unsafe.Pointer(&w.mem[off]))
}

// Read32 loads the 32-bit register at bus address addr.
func (w *Window) Read32(addr uint32) uint32 {
	return atomic.LoadUint32(w.word(addr))
}

// Write32 stores val to the 32-bit register at bus address addr.
func (w *Window) Write32(addr uint32, val uint32) {
	atomic.StoreUint32(w.word(addr), val)
}

// Close unmaps the window and closes the underlying file.
func (w *Window) Close() error {
	if !w.owned {
		return nil
	}
	err := unix.Munmap(w.mem)
	w.mem = nil
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "close window")
	}
	return nil
}
