package aica

// Volume is 4-bit unsigned for most registers. The LPF1 register takes an
// 8-bit volume, see LPF1VolumeMask.
const (
	VolumeMin = 0x00
	VolumeMax = 0x0f
)

// Panning is 5-bit sign-magnitude. 0x10 (-0) is also centered.
const (
	PanRightMax = 0x1f // -15
	PanCenter   = 0x00
	PanLeftMax  = 0x0f // 15
)

// Per-channel register offsets, relative to ChannelOffset(ch).
const (
	RegPlayControl   = 0x0000
	RegSampleAddrLow = 0x0004
	RegLoopStart     = 0x0008
	RegLoopEnd       = 0x000c
	RegAmpEnv1       = 0x0010
	RegAmpEnv2       = 0x0014
	RegPitch         = 0x0018
	RegLFO           = 0x001c
	RegDSPSend       = 0x0020
	RegDirectPanVol  = 0x0024
	RegLPF1Volume    = 0x0028
	RegLPF2          = 0x002c
	RegLPF3          = 0x0030
	RegLPF4          = 0x0034
	RegLPF5          = 0x0038
	RegLPF6          = 0x003c
	RegLPF7          = 0x0040
	RegLPF8          = 0x0044
)

// Play control
const (
	SampleAddrHighMask  = 0x3f
	SampleAddrHighShift = 0

	FormatMask             = 3 << 7
	FormatShift            = 7
	PlayControlFormat16Bit = 0 << 7
	PlayControlFormat8Bit  = 1 << 7
	PlayControlFormatADPCM = 2 << 7
	// ADPCM with the loop handled by the decoder.
	PlayControlFormatLoopingADPCM = 3 << 7

	PlayControlLoopEnable  = 1 << 9
	PlayControlLoopDisable = 0 << 9

	// Bit 10 is used by the hardware but undocumented.
	PlayControlUnknownBit = 1 << 10

	PlayControlKeyEnable         = 1 << 14
	PlayControlKeyDisable        = 0 << 14
	PlayControlAftertouchEnable  = 1 << 15
	PlayControlAftertouchDisable = 0 << 15
)

// Sample address low, loop start, loop end
const (
	SampleAddrLowMask  = 0xffff
	SampleAddrLowShift = 0

	LoopStartMask  = 0xffff
	LoopStartShift = 0

	LoopEndMask  = 0xffff
	LoopEndShift = 0
)

// Envelope rates are 5-bit.
const (
	EnvRateMin = 0x00
	EnvRateMax = 0x1f
)

// Amplitude envelope 1
const (
	AmpEnv1AttackMask  = 0x1f
	AmpEnv1AttackShift = 0
	AmpEnv1Decay1Mask  = 0x1f << 6
	AmpEnv1Decay1Shift = 6
	AmpEnv1Decay2Mask  = 0x1f << 11
	AmpEnv1Decay2Shift = 11
)

// Amplitude envelope 2
const (
	AmpEnv2ReleaseMask     = 0x1f
	AmpEnv2ReleaseShift    = 0
	AmpEnv2DecayLevelMask  = 0x1f << 5
	AmpEnv2DecayLevelShift = 5

	AmpEnv2KeyMask  = 0xf << 10
	AmpEnv2KeyShift = 10
	AmpEnv2KeyMin   = 0x0
	AmpEnv2KeyMax   = 0xe
	AmpEnv2KeyOff   = 0xf // key rate scaling disabled

	AmpEnv2LinkEnable  = 1 << 14
	AmpEnv2LinkDisable = 0 << 14
)

// Sample rate and pitch. Only partially documented.
const (
	PitchOctaveMask  = 0x1f << 11
	PitchOctaveShift = 11
	PitchFNSMask     = 0x3ff
	PitchFNSShift    = 0
)

// LFO control
const (
	LFOAmpRangeMask  = 0x7 << 0
	LFOAmpRangeShift = 0
	LFOAmpShapeMask  = 3 << 3
	LFOAmpShapeShift = 3

	LFOAmpShapeSaw      = 0 << 3
	LFOAmpShapeSquare   = 1 << 3
	LFOAmpShapeTriangle = 2 << 3
	LFOAmpShapeNoise    = 3 << 3

	LFOPitchRangeMask  = 0x7 << 5
	LFOPitchRangeShift = 5
	LFOPitchShapeMask  = 3 << 8
	LFOPitchShapeShift = 8

	LFOPitchShapeSaw      = 0 << 8
	LFOPitchShapeSquare   = 1 << 8
	LFOPitchShapeTriangle = 2 << 8
	LFOPitchShapeNoise    = 3 << 8

	LFOFreqMask  = 0x1f << 10
	LFOFreqShift = 10
	LFOFreqMin   = 0x00
	LFOFreqMax   = 0x1f

	LFOResetEnable  = 1 << 15
	LFOResetDisable = 0 << 15
)

// DSP send: routes the channel to one of the 16 DSP mixer inputs.
const (
	DSPSendChannelMask  = 0xf
	DSPSendChannelShift = 0
	DSPSendLevelMask    = 0xf << 8
	DSPSendLevelShift   = 8
)

// Direct pan and volume
const (
	DirectPanMask     = 0x1f // sign bit and 4-bit magnitude, not 0xf: PanRightMax needs bit 4
	DirectPanShift    = 0
	DirectVolumeMask  = 0xf << 8
	DirectVolumeShift = 8
)

// LPF1 and volume. The volume part of this register is 8-bit unsigned.
const (
	FilterQMask  = 0xf
	FilterQShift = 0

	LPFEnable  = 0 << 5
	LPFDisable = 1 << 5

	LPF1VolumeMask  = 0xff << 8
	LPF1VolumeShift = 8
	LPF1VolumeMin   = 0x00
	LPF1VolumeMax   = 0xff
)

// LPF2 to LPF6: filter frequency levels.
const (
	LPFFreqMask  = 0x1fff
	LPFFreqShift = 0
	LPFFreqMin   = 0x0000
	LPFFreqMax   = 0x1fff
)

// LPF7 and LPF8: filter envelope rates. The min/max bounds mirror the
// amplitude envelope ones.
const (
	LPF7Decay1Mask  = 0x1f
	LPF7Decay1Shift = 0
	LPF7AttackMask  = 0x1f << 8
	LPF7AttackShift = 8

	LPF8ReleaseMask  = 0x1f
	LPF8ReleaseShift = 0
	LPF8Decay2Mask   = 0x1f << 8
	LPF8Decay2Shift  = 8
)

// DSP output mixer. Each lane has its own volume and pan.
const (
	RegDSPMix    = 0x2000
	RegCDDALeft  = 0x2040
	RegCDDARight = 0x2044

	DSPMixVolumeMask  = 0xf << 8
	DSPMixVolumeShift = 8
	DSPMixPanMask     = 0x1f // 5 bits, like DirectPanMask
	DSPMixPanShift    = 0
)

// Whole chip control registers, relative to the base address.
const (
	RegMasterVolume       = 0x2800
	RegDSPProgramAddr     = 0x2804 // size and base address of the DSP ring buffer
	RegIntBusRequest      = 0x2808
	RegChannelInfoRequest = 0x280c
	RegChannelStatus      = 0x2810
	RegPlayPosition       = 0x2814
	RegARMReset           = 0x2c00
)

// Master volume
const (
	MasterVolumeMask   = 0xf
	MasterVolumeShift  = 0
	MasterVolumeMin    = 0x0
	MasterVolumeMax    = 0xf
	MasterVolumeStereo = 0x00 << 8
	MasterVolumeMono   = 0x80 << 8
)

// Bus interrupt request
const IntBusFIQ5 = 0x100

// Channel info request. The hardware latches the selected channel status and
// play position; they become readable after a hardware dependent delay.
const (
	ChannelInfoChannelMask  = 0x3f << 8
	ChannelInfoChannelShift = 8
	// Bits kept when selecting a channel.
	ChannelInfoKeepMask = 0x0000c0ff
)

// Channel status
const (
	ChannelStatusPlaying       = 0x7fff
	ChannelStatusStopped       = 0x4000
	ChannelStatusLoopEndMarker = 0x4000
)

// Play position, a 16-bit sample offset.
const (
	PlayPositionMask  = 0xffff
	PlayPositionShift = 0
)

// ARM reset. The same register reports the video cable type.
const (
	ARMReset       = 1 << 0
	CableTypeMask  = 0x300
	CableTypeShift = 8
)

// Interrupt and timer registers
const (
	RegIntTimerStart   = 0x2890
	RegIntTimerEnd     = 0x289c
	RegIntTimerTrigger = 0x28a4

	RegIntEnable = 0x28b4
	RegIntSend   = 0x28b8
	RegIntReset  = 0x28bc

	// Status register
	RegIntRequest = 0x2d00
	RegIntClear   = 0x2d04
)

const (
	IntEnable = 0x20
	IntSend   = 0x20
	IntReset  = 0x20

	IntRequestTimer    = 2
	IntRequestResetBus = 5

	IntClear = 1 << 0
)

// DSP program
const RegDSPInst = 0x3000
