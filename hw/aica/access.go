package aica

import (
	"fmt"

	"aica/hw/hwio"
)

// Bus performs 32-bit register accesses at absolute addresses. Real hardware
// is reached through mmio.Window or mmio.Raw, a simulated chip through an
// hwio.Table.
//
// Implementations must issue exactly one access per call, in program order:
// no caching, merging or elision.
type Bus interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, val uint32)
}

// SetReg writes data to the register at address reg, for instance
// G2Base|RegMasterVolume or ARM7Base|ChannelOffset(3)|RegLoopEnd.
func SetReg(bus Bus, reg, data uint32) {
	bus.Write32(reg, data)
}

// GetReg reads the register at address reg.
func GetReg(bus Bus, reg uint32) uint32 {
	return bus.Read32(reg)
}

// RequestChannelInfo selects channel ch (0-63) as the source of the channel
// status and play position registers, from the ARM7 side. See
// Chip.RequestChannelInfo.
func RequestChannelInfo(bus Bus, ch int) {
	Chip{Bus: bus, Base: ARM7Base}.RequestChannelInfo(ch)
}

// PlayPosition reads the play position register from the ARM7 side. See
// Chip.PlayPosition.
func PlayPosition(bus Bus) uint32 {
	return Chip{Bus: bus, Base: ARM7Base}.PlayPosition()
}

// Chip binds a bus to the base address the registers are seen at from the
// issuing CPU. It holds no state of its own and can be copied freely.
type Chip struct {
	Bus  Bus
	Base uint32
}

func checkChannel(ch int) {
	if debugChecks && uint(ch) >= NumChannels {
		panic(fmt.Sprintf("aica: channel %d out of range", ch))
	}
}

func checkIndex(what string, x, n int) {
	if debugChecks && uint(x) >= uint(n) {
		panic(fmt.Sprintf("aica: %s %d out of range", what, x))
	}
}

// Reg returns the address of the global register at offset off.
func (c Chip) Reg(off uint32) uint32 {
	return c.Base | off
}

// ChannelReg returns the address of register off of channel ch.
func (c Chip) ChannelReg(ch int, off uint32) uint32 {
	checkChannel(ch)
	return ChannelAddr(c.Base, ch, off)
}

// Write writes the global register at offset off.
func (c Chip) Write(off, val uint32) { SetReg(c.Bus, c.Reg(off), val) }

// Read reads the global register at offset off.
func (c Chip) Read(off uint32) uint32 { return GetReg(c.Bus, c.Reg(off)) }

// WriteChannel writes register off of channel ch.
func (c Chip) WriteChannel(ch int, off, val uint32) {
	SetReg(c.Bus, c.ChannelReg(ch, off), val)
}

// ReadChannel reads register off of channel ch.
func (c Chip) ReadChannel(ch int, off uint32) uint32 {
	return GetReg(c.Bus, c.ChannelReg(ch, off))
}

// UpdateField replaces field f of the register at address addr with v,
// leaving the other bits untouched. Like every read-modify-write, it is not
// atomic with respect to other writers of the same register.
func (c Chip) UpdateField(addr uint32, f hwio.Field, v uint32) {
	SetReg(c.Bus, addr, f.Set(GetReg(c.Bus, addr), v))
}

// RequestChannelInfo selects channel ch (0-63) as the source of the channel
// status and play position registers. The channel field is replaced, the
// other bits of the request register are kept.
//
// The hardware needs some time before the requested values become valid;
// that delay is left to the caller, which can do useful work meanwhile
// instead of spinning here. The read-modify-write is not atomic: callers
// sharing the chip between contexts (interrupt handler and main loop) must
// serialize calls.
func (c Chip) RequestChannelInfo(ch int) {
	checkChannel(ch)
	addr := c.Reg(RegChannelInfoRequest)
	v := GetReg(c.Bus, addr)
	v &= ChannelInfoKeepMask
	v |= uint32(ch) << ChannelInfoChannelShift
	SetReg(c.Bus, addr, v)
}

// PlayPosition returns the raw play position register of the channel last
// selected with RequestChannelInfo. The sample offset is
// (v & PlayPositionMask) >> PlayPositionShift.
func (c Chip) PlayPosition() uint32 {
	return GetReg(c.Bus, c.Reg(RegPlayPosition))
}

// ChannelStatus returns the raw channel status register of the channel last
// selected with RequestChannelInfo.
func (c Chip) ChannelStatus() uint32 {
	return GetReg(c.Bus, c.Reg(RegChannelStatus))
}

// KeyOn sets the key bit of channel ch, starting playback.
func (c Chip) KeyOn(ch int) {
	c.UpdateField(c.ChannelReg(ch, RegPlayControl), keyField, 1)
}

// KeyOff clears the key bit of channel ch, entering the release phase.
func (c Chip) KeyOff(ch int) {
	c.UpdateField(c.ChannelReg(ch, RegPlayControl), keyField, 0)
}

var keyField = hwio.Flag("key", 14)

// SetMasterVolume sets the master volume (0-15) and output mode.
func (c Chip) SetMasterVolume(vol uint32, mono bool) {
	v := vol << MasterVolumeShift & MasterVolumeMask
	if mono {
		v |= MasterVolumeMono
	}
	c.Write(RegMasterVolume, v)
}

// SetDSPMix sets volume (0-15) and pan (-15 to 15) of DSP mixer lane x
// (0-15).
func (c Chip) SetDSPMix(x int, vol uint32, pan int) {
	checkIndex("dsp mixer lane", x, NumDSPChannels)
	v := vol<<DSPMixVolumeShift&DSPMixVolumeMask | Pan(pan)<<DSPMixPanShift&DSPMixPanMask
	c.Write(DSPMixReg(x), v)
}

// WriteDSPStep writes the instruction word of DSP step x (0-127).
func (c Chip) WriteDSPStep(x int, word uint32) {
	checkIndex("dsp step", x, NumDSPSteps)
	c.Write(DSPInstReg(x), word)
}

// ReadDSPStep reads the instruction word of DSP step x (0-127).
func (c Chip) ReadDSPStep(x int) uint32 {
	checkIndex("dsp step", x, NumDSPSteps)
	return c.Read(DSPInstReg(x))
}
