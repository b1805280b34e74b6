package aica

import (
	"fmt"

	"aica/hw/hwio"
)

// Scope tells how a register is replicated in the register space.
type Scope uint8

const (
	ScopeGlobal  Scope = iota // single register, offset relative to the base
	ScopeChannel              // one per sample channel, at ChannelOffset(ch)
	ScopeDSPMix               // one per DSP mixer lane, at DSPMixReg(x)
	ScopeDSPStep              // one per DSP instruction, at DSPInstReg(x)
)

var scopeNames = [...]string{
	ScopeGlobal:  "global",
	ScopeChannel: "channel",
	ScopeDSPMix:  "dsp-mix",
	ScopeDSPStep: "dsp-step",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return fmt.Sprintf("Scope(%d)", s)
}

// Count is the number of instances of a register of this scope.
func (s Scope) Count() int {
	switch s {
	case ScopeChannel:
		return NumChannels
	case ScopeDSPMix:
		return NumDSPChannels
	case ScopeDSPStep:
		return NumDSPSteps
	}
	return 1
}

// Register describes a register: where it lives and how its word is split in
// fields.
type Register struct {
	hwio.Layout
	Scope Scope
}

// Addr returns the address of instance index of the register. index is
// ignored for global registers.
func (r Register) Addr(base uint32, index int) uint32 {
	switch r.Scope {
	case ScopeChannel:
		return base | ChannelOffset(index) | r.Offset
	case ScopeDSPMix, ScopeDSPStep:
		return base | (r.Offset + uint32(index)*4)
	}
	return base | r.Offset
}

func field(name string, mask uint32, shift uint, max uint32) hwio.Field {
	return hwio.Field{Name: name, Mask: mask, Shift: shift, Max: max}
}

func channelReg(name string, off uint32, fields ...hwio.Field) Register {
	return Register{Layout: hwio.Layout{Name: name, Offset: off, Fields: fields}, Scope: ScopeChannel}
}

func globalReg(name string, off uint32, fields ...hwio.Field) Register {
	return Register{Layout: hwio.Layout{Name: name, Offset: off, Fields: fields}, Scope: ScopeGlobal}
}

func lpfFreqReg(name string, off uint32) Register {
	return channelReg(name, off, field("freq", LPFFreqMask, LPFFreqShift, LPFFreqMax))
}

var mixFields = []hwio.Field{
	field("pan", DSPMixPanMask, DSPMixPanShift, PanRightMax),
	field("volume", DSPMixVolumeMask, DSPMixVolumeShift, VolumeMax),
}

// Registers lists every register of the chip, channel registers first, in
// address order.
var Registers = []Register{
	channelReg("play-control", RegPlayControl,
		field("addr-high", SampleAddrHighMask, SampleAddrHighShift, SampleAddrHighMask),
		field("format", FormatMask, FormatShift, uint32(FormatLoopingADPCM)),
		hwio.Flag("loop", 9),
		hwio.Flag("unknown", 10),
		hwio.Flag("key", 14),
		hwio.Flag("aftertouch", 15),
	),
	channelReg("sample-addr-low", RegSampleAddrLow,
		field("addr-low", SampleAddrLowMask, SampleAddrLowShift, SampleAddrLowMask)),
	channelReg("loop-start", RegLoopStart,
		field("start", LoopStartMask, LoopStartShift, LoopStartMask)),
	channelReg("loop-end", RegLoopEnd,
		field("end", LoopEndMask, LoopEndShift, LoopEndMask)),
	channelReg("amp-env1", RegAmpEnv1,
		field("attack", AmpEnv1AttackMask, AmpEnv1AttackShift, EnvRateMax),
		field("decay1", AmpEnv1Decay1Mask, AmpEnv1Decay1Shift, EnvRateMax),
		field("decay2", AmpEnv1Decay2Mask, AmpEnv1Decay2Shift, EnvRateMax),
	),
	channelReg("amp-env2", RegAmpEnv2,
		field("release", AmpEnv2ReleaseMask, AmpEnv2ReleaseShift, EnvRateMax),
		field("decay-level", AmpEnv2DecayLevelMask, AmpEnv2DecayLevelShift, EnvRateMax),
		field("key-scale", AmpEnv2KeyMask, AmpEnv2KeyShift, AmpEnv2KeyOff),
		hwio.Flag("link", 14),
	),
	channelReg("pitch", RegPitch,
		field("fns", PitchFNSMask, PitchFNSShift, PitchFNSMask),
		field("octave", PitchOctaveMask, PitchOctaveShift, PitchOctaveMask>>PitchOctaveShift),
	),
	channelReg("lfo", RegLFO,
		field("amp-range", LFOAmpRangeMask, LFOAmpRangeShift, 7),
		field("amp-shape", LFOAmpShapeMask, LFOAmpShapeShift, uint32(WaveNoise)),
		field("pitch-range", LFOPitchRangeMask, LFOPitchRangeShift, 7),
		field("pitch-shape", LFOPitchShapeMask, LFOPitchShapeShift, uint32(WaveNoise)),
		field("freq", LFOFreqMask, LFOFreqShift, LFOFreqMax),
		hwio.Flag("reset", 15),
	),
	channelReg("dsp-send", RegDSPSend,
		field("channel", DSPSendChannelMask, DSPSendChannelShift, NumDSPChannels-1),
		field("level", DSPSendLevelMask, DSPSendLevelShift, VolumeMax),
	),
	channelReg("direct-pan-vol", RegDirectPanVol,
		field("pan", DirectPanMask, DirectPanShift, PanRightMax),
		field("volume", DirectVolumeMask, DirectVolumeShift, VolumeMax),
	),
	channelReg("lpf1-volume", RegLPF1Volume,
		field("q", FilterQMask, FilterQShift, FilterQMask),
		hwio.Flag("lpf-off", 5),
		field("volume", LPF1VolumeMask, LPF1VolumeShift, LPF1VolumeMax),
	),
	lpfFreqReg("lpf2", RegLPF2),
	lpfFreqReg("lpf3", RegLPF3),
	lpfFreqReg("lpf4", RegLPF4),
	lpfFreqReg("lpf5", RegLPF5),
	lpfFreqReg("lpf6", RegLPF6),
	channelReg("lpf7", RegLPF7,
		field("decay1", LPF7Decay1Mask, LPF7Decay1Shift, EnvRateMax),
		field("attack", LPF7AttackMask, LPF7AttackShift, EnvRateMax),
	),
	channelReg("lpf8", RegLPF8,
		field("release", LPF8ReleaseMask, LPF8ReleaseShift, EnvRateMax),
		field("decay2", LPF8Decay2Mask, LPF8Decay2Shift, EnvRateMax),
	),

	{Layout: hwio.Layout{Name: "dsp-mix", Offset: RegDSPMix, Fields: mixFields}, Scope: ScopeDSPMix},
	globalReg("cdda-left", RegCDDALeft, mixFields...),
	globalReg("cdda-right", RegCDDARight, mixFields...),

	globalReg("master-volume", RegMasterVolume,
		field("volume", MasterVolumeMask, MasterVolumeShift, MasterVolumeMax),
		hwio.Flag("mono", 15),
	),
	globalReg("dsp-program-addr", RegDSPProgramAddr),
	globalReg("int-bus-request", RegIntBusRequest, hwio.Flag("fiq5", 8)),
	globalReg("channel-info-request", RegChannelInfoRequest,
		field("channel", ChannelInfoChannelMask, ChannelInfoChannelShift, NumChannels-1)),
	globalReg("channel-status", RegChannelStatus, hwio.Flag("loop-end", 14)),
	globalReg("play-position", RegPlayPosition,
		field("position", PlayPositionMask, PlayPositionShift, PlayPositionMask)),
	globalReg("int-timer-start", RegIntTimerStart),
	globalReg("int-timer-end", RegIntTimerEnd),
	globalReg("int-timer-trigger", RegIntTimerTrigger),
	globalReg("int-enable", RegIntEnable, hwio.Flag("enable", 5)),
	globalReg("int-send", RegIntSend, hwio.Flag("send", 5)),
	globalReg("int-reset", RegIntReset, hwio.Flag("reset", 5)),
	globalReg("arm-reset", RegARMReset,
		hwio.Flag("reset", 0),
		field("cable-type", CableTypeMask, CableTypeShift, CableTypeMask>>CableTypeShift),
	),
	globalReg("int-request", RegIntRequest),
	globalReg("int-clear", RegIntClear, hwio.Flag("clear", 0)),

	{Layout: hwio.Layout{Name: "dsp-inst", Offset: RegDSPInst}, Scope: ScopeDSPStep},
}

// LookupRegister returns the register with the given name.
func LookupRegister(name string) (Register, bool) {
	for _, r := range Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}
