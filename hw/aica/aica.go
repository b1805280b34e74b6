// Package aica is a register map of the Dreamcast AICA sound chip, with the
// primitives to read and write its registers.
//
// A register address is always formed by OR-ing a base address, an optional
// channel (or mixer lane, or DSP step) offset and the register offset:
//
//	ARM7Base | ChannelOffset(ch) | RegLoopStart
//	G2Base | RegMasterVolume
//
// Field values are built by OR-ing the masked, shifted field constants
// together. Every MASK constant has a SHIFT companion: v<<XxxShift & XxxMask
// places v in the field.
//
// Nothing here validates channel numbers or addresses: the hardware does not
// report errors and the register path is latency sensitive. Build with the
// aicadebug tag to get panics on out of range channel indexes.
package aica

// Base addresses of the register space.
const (
	// ARM7Base is used by code running on the AICA's own ARM7 core.
	ARM7Base = 0x00800000
	// G2Base is used by the SH4 host CPU, through the G2 bus bridge.
	G2Base = 0xa0700000

	// RegSpaceSize covers every register, from the first channel to the last
	// DSP instruction.
	RegSpaceSize = 0x4000
)

// Channel geometry.
const (
	NumChannels    = 64
	ChannelStride  = 0x80
	NumChannelRegs = 18 // 32-bit registers per channel block

	NumDSPChannels = 16  // DSP output mixer lanes
	NumDSPSteps    = 128 // DSP instruction slots
)

// ChannelOffset returns the offset of the register block of sample channel
// ch (0-63).
func ChannelOffset(ch int) uint32 {
	return uint32(ch) * ChannelStride
}

// ChannelAddr returns the address of register reg of channel ch.
func ChannelAddr(base uint32, ch int, reg uint32) uint32 {
	return base | ChannelOffset(ch) | reg
}

// DSPMixReg returns the offset of the DSP output mixer register of lane x
// (0-15). Lanes 16 and 17 are the CD-DA inputs, see RegCDDALeft and
// RegCDDARight.
func DSPMixReg(x int) uint32 {
	return RegDSPMix + uint32(x)*4
}

// DSPInstReg returns the offset of DSP instruction step x (0-127).
func DSPInstReg(x int) uint32 {
	return RegDSPInst + uint32(x)*4
}
