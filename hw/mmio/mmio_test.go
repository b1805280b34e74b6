package mmio

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func anonWindow(t *testing.T, base uint32, size int) *Window {
	t.Helper()
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { unix.Munmap(mem) })
	return NewWindow(mem, base)
}

func TestWindowReadWrite(t *testing.T) {
	const base = 0x00800000
	w := anonWindow(t, base, 0x4000)

	w.Write32(base|0x2814, 0xdeadbeef)
	if got := w.Read32(base | 0x2814); got != 0xdeadbeef {
		t.Errorf("Read32 = %08x, want deadbeef", got)
	}
	if got := w.Read32(base | 0x2810); got != 0 {
		t.Errorf("neighbour word modified: %08x", got)
	}
	if w.Size() != 0x4000 {
		t.Errorf("Size() = %x", w.Size())
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close on a borrowed window: %v", err)
	}
}

func TestWindowOutOfRange(t *testing.T) {
	w := anonWindow(t, 0x1000, 0x1000)

	for _, addr := range []uint32{0x2000, 0x0ffc, 0x1ffd} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("access at %#x did not panic", addr)
				}
			}()
			w.Read32(addr)
		}()
	}
}

func TestWindowUnaligned(t *testing.T) {
	w := anonWindow(t, 0, 0x1000)

	defer func() {
		if recover() == nil {
			t.Error("unaligned access did not panic")
		}
	}()
	w.Write32(0x2, 1)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(path, make([]byte, 2*os.Getpagesize()), 0600); err != nil {
		t.Fatal(err)
	}

	w, err := Open(path, int64(os.Getpagesize()), 0xa0700000, 0x100)
	if err != nil {
		t.Fatal(err)
	}
	w.Write32(0xa0700004, 0x01020304)
	if got := w.Read32(0xa0700004); got != 0x01020304 {
		t.Errorf("Read32 = %08x", got)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	off := os.Getpagesize() + 4
	if got := buf[off : off+4]; got[0] != 0x04 || got[3] != 0x01 {
		t.Errorf("store did not reach the file: % x", got)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing"), 0, 0, 0x100); err == nil {
		t.Error("Open of a missing file should fail")
	}
	if _, err := Open(os.DevNull, 3, 0, 0x100); err == nil {
		t.Error("Open at an unaligned offset should fail")
	}
}
