package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Raw accesses registers directly at their bus address. It is only usable by
// code running on the target itself, where the register space is mapped at
// its physical address (bare metal, no MMU or identity mapping).
type Raw struct{}

// The uintptr to unsafe.Pointer conversions below are reported by go vet's
// unsafeptr check: addr is a fixed device address, not Go memory, so no GC
// object can move under it.

func (Raw) Read32(addr uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func (Raw) Write32(addr uint32, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), val)
}
