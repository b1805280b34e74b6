package aica

import "fmt"

// SampleFormat is the encoding of a channel sample data.
type SampleFormat uint8

const (
	Format16Bit SampleFormat = iota
	Format8Bit
	FormatADPCM
	FormatLoopingADPCM
)

var formatNames = [...]string{"pcm16", "pcm8", "adpcm", "adpcm-loop"}

func (f SampleFormat) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("SampleFormat(%d)", f)
}

// Waveform is an LFO shape.
type Waveform uint8

const (
	WaveSaw Waveform = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

var waveNames = [...]string{"saw", "square", "triangle", "noise"}

func (w Waveform) String() string {
	if int(w) < len(waveNames) {
		return waveNames[w]
	}
	return fmt.Sprintf("Waveform(%d)", w)
}

// Envelope holds the amplitude envelope rates (0-31).
type Envelope struct {
	Attack     uint32
	Decay1     uint32
	Decay2     uint32
	Release    uint32
	DecayLevel uint32
	KeyScale   uint32 // 0-14, AmpEnv2KeyOff disables key rate scaling
	Link       bool
}

// LFO holds the low frequency oscillator settings.
type LFO struct {
	Freq       uint32 // 0-31
	AmpShape   Waveform
	AmpRange   uint32 // 0-7
	PitchShape Waveform
	PitchRange uint32 // 0-7
	Reset      bool
}

// Filter holds the low-pass filter settings. Freqs are the five frequency
// levels of LPF2 to LPF6, the rates those of LPF7 and LPF8.
type Filter struct {
	Disable bool
	Q       uint32
	Freqs   [5]uint32
	Attack  uint32
	Decay1  uint32
	Decay2  uint32
	Release uint32
}

// Voice is the complete setup of a sample channel. Words packs it into the
// channel registers; the key bit is never part of it, see Chip.KeyOn.
type Voice struct {
	Format     SampleFormat
	Addr       uint32 // sample start, 22 bits
	LoopStart  uint32
	LoopEnd    uint32
	Loop       bool
	Aftertouch bool

	Amp    Envelope
	Octave uint32
	FNS    uint32
	LFO    LFO

	DSPChannel uint32
	DSPLevel   uint32

	Pan          int // -15 (right) to 15 (left)
	DirectVolume uint32
	Volume       uint32 // 8-bit, LPF1 register
	Filter       Filter
}

func bit(b bool, v uint32) uint32 {
	if b {
		return v
	}
	return 0
}

// Words returns the channel register values, indexed by register offset / 4.
func (v Voice) Words() [NumChannelRegs]uint32 {
	var w [NumChannelRegs]uint32
	w[RegPlayControl/4] = v.Addr>>16&SampleAddrHighMask |
		uint32(v.Format)<<FormatShift&FormatMask |
		bit(v.Loop, PlayControlLoopEnable) |
		bit(v.Aftertouch, PlayControlAftertouchEnable)
	w[RegSampleAddrLow/4] = v.Addr & SampleAddrLowMask
	w[RegLoopStart/4] = v.LoopStart & LoopStartMask
	w[RegLoopEnd/4] = v.LoopEnd & LoopEndMask

	w[RegAmpEnv1/4] = v.Amp.Attack<<AmpEnv1AttackShift&AmpEnv1AttackMask |
		v.Amp.Decay1<<AmpEnv1Decay1Shift&AmpEnv1Decay1Mask |
		v.Amp.Decay2<<AmpEnv1Decay2Shift&AmpEnv1Decay2Mask
	w[RegAmpEnv2/4] = v.Amp.Release<<AmpEnv2ReleaseShift&AmpEnv2ReleaseMask |
		v.Amp.DecayLevel<<AmpEnv2DecayLevelShift&AmpEnv2DecayLevelMask |
		v.Amp.KeyScale<<AmpEnv2KeyShift&AmpEnv2KeyMask |
		bit(v.Amp.Link, AmpEnv2LinkEnable)

	w[RegPitch/4] = v.Octave<<PitchOctaveShift&PitchOctaveMask |
		v.FNS<<PitchFNSShift&PitchFNSMask

	w[RegLFO/4] = v.LFO.AmpRange<<LFOAmpRangeShift&LFOAmpRangeMask |
		uint32(v.LFO.AmpShape)<<LFOAmpShapeShift&LFOAmpShapeMask |
		v.LFO.PitchRange<<LFOPitchRangeShift&LFOPitchRangeMask |
		uint32(v.LFO.PitchShape)<<LFOPitchShapeShift&LFOPitchShapeMask |
		v.LFO.Freq<<LFOFreqShift&LFOFreqMask |
		bit(v.LFO.Reset, LFOResetEnable)

	w[RegDSPSend/4] = v.DSPChannel<<DSPSendChannelShift&DSPSendChannelMask |
		v.DSPLevel<<DSPSendLevelShift&DSPSendLevelMask
	w[RegDirectPanVol/4] = Pan(v.Pan)<<DirectPanShift&DirectPanMask |
		v.DirectVolume<<DirectVolumeShift&DirectVolumeMask

	w[RegLPF1Volume/4] = v.Filter.Q<<FilterQShift&FilterQMask |
		bit(v.Filter.Disable, LPFDisable) |
		v.Volume<<LPF1VolumeShift&LPF1VolumeMask
	for i, f := range v.Filter.Freqs {
		w[RegLPF2/4+i] = f << LPFFreqShift & LPFFreqMask
	}
	w[RegLPF7/4] = v.Filter.Decay1<<LPF7Decay1Shift&LPF7Decay1Mask |
		v.Filter.Attack<<LPF7AttackShift&LPF7AttackMask
	w[RegLPF8/4] = v.Filter.Release<<LPF8ReleaseShift&LPF8ReleaseMask |
		v.Filter.Decay2<<LPF8Decay2Shift&LPF8Decay2Mask
	return w
}

func get(w, mask uint32, shift uint) uint32 { return w & mask >> shift }

// DecodeVoice is the reverse of Voice.Words.
func DecodeVoice(w [NumChannelRegs]uint32) Voice {
	var v Voice
	pc := w[RegPlayControl/4]
	v.Format = SampleFormat(get(pc, FormatMask, FormatShift))
	v.Addr = get(pc, SampleAddrHighMask, SampleAddrHighShift)<<16 | w[RegSampleAddrLow/4]&SampleAddrLowMask
	v.Loop = pc&PlayControlLoopEnable != 0
	v.Aftertouch = pc&PlayControlAftertouchEnable != 0
	v.LoopStart = w[RegLoopStart/4] & LoopStartMask
	v.LoopEnd = w[RegLoopEnd/4] & LoopEndMask

	e1, e2 := w[RegAmpEnv1/4], w[RegAmpEnv2/4]
	v.Amp = Envelope{
		Attack:     get(e1, AmpEnv1AttackMask, AmpEnv1AttackShift),
		Decay1:     get(e1, AmpEnv1Decay1Mask, AmpEnv1Decay1Shift),
		Decay2:     get(e1, AmpEnv1Decay2Mask, AmpEnv1Decay2Shift),
		Release:    get(e2, AmpEnv2ReleaseMask, AmpEnv2ReleaseShift),
		DecayLevel: get(e2, AmpEnv2DecayLevelMask, AmpEnv2DecayLevelShift),
		KeyScale:   get(e2, AmpEnv2KeyMask, AmpEnv2KeyShift),
		Link:       e2&AmpEnv2LinkEnable != 0,
	}

	p := w[RegPitch/4]
	v.Octave = get(p, PitchOctaveMask, PitchOctaveShift)
	v.FNS = get(p, PitchFNSMask, PitchFNSShift)

	l := w[RegLFO/4]
	v.LFO = LFO{
		Freq:       get(l, LFOFreqMask, LFOFreqShift),
		AmpShape:   Waveform(get(l, LFOAmpShapeMask, LFOAmpShapeShift)),
		AmpRange:   get(l, LFOAmpRangeMask, LFOAmpRangeShift),
		PitchShape: Waveform(get(l, LFOPitchShapeMask, LFOPitchShapeShift)),
		PitchRange: get(l, LFOPitchRangeMask, LFOPitchRangeShift),
		Reset:      l&LFOResetEnable != 0,
	}

	s := w[RegDSPSend/4]
	v.DSPChannel = get(s, DSPSendChannelMask, DSPSendChannelShift)
	v.DSPLevel = get(s, DSPSendLevelMask, DSPSendLevelShift)

	d := w[RegDirectPanVol/4]
	v.Pan = PanValue(get(d, DirectPanMask, DirectPanShift))
	v.DirectVolume = get(d, DirectVolumeMask, DirectVolumeShift)

	f1 := w[RegLPF1Volume/4]
	v.Volume = get(f1, LPF1VolumeMask, LPF1VolumeShift)
	v.Filter.Q = get(f1, FilterQMask, FilterQShift)
	v.Filter.Disable = f1&LPFDisable != 0
	for i := range v.Filter.Freqs {
		v.Filter.Freqs[i] = get(w[RegLPF2/4+i], LPFFreqMask, LPFFreqShift)
	}
	v.Filter.Decay1 = get(w[RegLPF7/4], LPF7Decay1Mask, LPF7Decay1Shift)
	v.Filter.Attack = get(w[RegLPF7/4], LPF7AttackMask, LPF7AttackShift)
	v.Filter.Release = get(w[RegLPF8/4], LPF8ReleaseMask, LPF8ReleaseShift)
	v.Filter.Decay2 = get(w[RegLPF8/4], LPF8Decay2Mask, LPF8Decay2Shift)
	return v
}

// Program writes the voice setup to channel ch. The play control register,
// which holds the key bit, is written last and leaves the key off.
func (c Chip) Program(ch int, v Voice) {
	w := v.Words()
	for i := 1; i < NumChannelRegs; i++ {
		c.WriteChannel(ch, uint32(i*4), w[i])
	}
	c.WriteChannel(ch, RegPlayControl, w[0])
}

// ReadVoice reads back the setup of channel ch.
func (c Chip) ReadVoice(ch int) Voice {
	var w [NumChannelRegs]uint32
	for i := range w {
		w[i] = c.ReadChannel(ch, uint32(i*4))
	}
	return DecodeVoice(w)
}
