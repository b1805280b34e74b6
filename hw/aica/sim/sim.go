// Package sim simulates the AICA register file.
//
// Registers store what is written to them. The channel info request and play
// position registers behave like the hardware: a request selects a channel
// whose status and position become readable after Settle reads. Step moves
// the play position of keyed channels, honoring loop points.
package sim

import (
	"aica/hw/aica"
	"aica/hw/hwio"
	"aica/log"
)

// Channel is the register block of one sample channel.
type Channel struct {
	PlayControl   hwio.Reg32 `hwio:"offset=0x00,wcb"`
	SampleAddrLow hwio.Reg32 `hwio:"offset=0x04"`
	LoopStart     hwio.Reg32 `hwio:"offset=0x08"`
	LoopEnd       hwio.Reg32 `hwio:"offset=0x0c"`
	AmpEnv1       hwio.Reg32 `hwio:"offset=0x10"`
	AmpEnv2       hwio.Reg32 `hwio:"offset=0x14"`
	Pitch         hwio.Reg32 `hwio:"offset=0x18"`
	LFO           hwio.Reg32 `hwio:"offset=0x1c"`
	DSPSend       hwio.Reg32 `hwio:"offset=0x20"`
	DirectPanVol  hwio.Reg32 `hwio:"offset=0x24"`
	LPF1Volume    hwio.Reg32 `hwio:"offset=0x28"`
	LPF2          hwio.Reg32 `hwio:"offset=0x2c"`
	LPF3          hwio.Reg32 `hwio:"offset=0x30"`
	LPF4          hwio.Reg32 `hwio:"offset=0x34"`
	LPF5          hwio.Reg32 `hwio:"offset=0x38"`
	LPF6          hwio.Reg32 `hwio:"offset=0x3c"`
	LPF7          hwio.Reg32 `hwio:"offset=0x40"`
	LPF8          hwio.Reg32 `hwio:"offset=0x44"`

	index    int
	keyed    bool
	position uint32
	status   uint32
}

func (c *Channel) WritePLAYCONTROL(old, val uint32) {
	on := val&aica.PlayControlKeyEnable != 0
	switch {
	case on && !c.keyed:
		c.keyed = true
		c.position = 0
		c.status = 0
		log.ModSim.DebugZ("key on").Int("ch", c.index).End()
	case !on && c.keyed:
		c.keyed = false
		log.ModSim.DebugZ("key off").Int("ch", c.index).End()
	}
}

// Keyed reports whether the channel key bit is set.
func (c *Channel) Keyed() bool { return c.keyed }

// AICA is a simulated chip, mapped at Base on Bus.
type AICA struct {
	Base uint32
	Bus  *hwio.Table

	// Settle is the number of status or position reads after a channel info
	// request that still return the previously selected channel.
	Settle int

	Channels [aica.NumChannels]Channel

	DSPMix             hwio.Mem   `hwio:"offset=0x2000,size=0x80"`
	MasterVolume       hwio.Reg32 `hwio:"offset=0x2800,rwmask=0x800f"`
	DSPProgramAddr     hwio.Reg32 `hwio:"offset=0x2804"`
	IntBusRequest      hwio.Reg32 `hwio:"offset=0x2808"`
	ChannelInfoRequest hwio.Reg32 `hwio:"offset=0x280c,wcb"`
	ChannelStatus      hwio.Reg32 `hwio:"offset=0x2810,readonly,rcb"`
	PlayPosition       hwio.Reg32 `hwio:"offset=0x2814,readonly,rcb"`
	IntTimerStart      hwio.Reg32 `hwio:"offset=0x2890"`
	IntTimerEnd        hwio.Reg32 `hwio:"offset=0x289c"`
	IntTimerTrigger    hwio.Reg32 `hwio:"offset=0x28a4"`
	IntEnable          hwio.Reg32 `hwio:"offset=0x28b4"`
	IntSend            hwio.Reg32 `hwio:"offset=0x28b8"`
	IntReset           hwio.Reg32 `hwio:"offset=0x28bc"`
	ARMReset           hwio.Reg32 `hwio:"offset=0x2c00,rwmask=0x1"`
	IntRequest         hwio.Reg32 `hwio:"offset=0x2d00,readonly"`
	IntClear           hwio.Reg32 `hwio:"offset=0x2d04,wcb"`
	DSPProgram         hwio.Mem   `hwio:"offset=0x3000,size=0x200"`

	requested int
	selected  int
	pending   int
}

// New returns a simulated chip seen at base (aica.ARM7Base or aica.G2Base).
func New(base uint32) *AICA {
	s := &AICA{Base: base, Bus: hwio.NewTable("aica")}
	hwio.MustInitRegs(s)
	s.Bus.MapBank(base, s, 0)
	for i := range s.Channels {
		ch := &s.Channels[i]
		ch.index = i
		hwio.MustInitRegs(ch)
		s.Bus.MapBank(base|aica.ChannelOffset(i), ch, 0)
	}
	s.Bus.Unmapped = openBus{}
	return s
}

// Unmapped parts of the register space read as zero and ignore writes.
type openBus struct{}

func (openBus) Read32(addr uint32) uint32 {
	log.ModSim.DebugZ("unmapped read").Hex32("addr", addr).End()
	return 0
}

func (openBus) Write32(addr uint32, val uint32) {
	log.ModSim.DebugZ("unmapped write").Hex32("addr", addr).Hex32("val", val).End()
}

func (s *AICA) Read32(addr uint32) uint32        { return s.Bus.Read32(addr) }
func (s *AICA) Write32(addr uint32, val uint32) { s.Bus.Write32(addr, val) }

func (s *AICA) WriteCHANNELINFOREQUEST(old, val uint32) {
	s.requested = int(val & aica.ChannelInfoChannelMask >> aica.ChannelInfoChannelShift)
	s.pending = s.Settle
	log.ModSim.DebugZ("channel info request").Int("ch", s.requested).End()
}

func (s *AICA) latch() *Channel {
	if s.pending > 0 {
		s.pending--
	} else {
		s.selected = s.requested
	}
	return &s.Channels[s.selected]
}

func (s *AICA) ReadCHANNELSTATUS(val uint32) uint32 {
	return s.latch().status
}

func (s *AICA) ReadPLAYPOSITION(val uint32) uint32 {
	return s.latch().position & aica.PlayPositionMask
}

func (s *AICA) WriteINTCLEAR(old, val uint32) {
	if val&aica.IntClear != 0 {
		s.IntRequest.Value = 0
	}
}

// SetPosition forces the play position of channel ch.
func (s *AICA) SetPosition(ch int, pos uint32) {
	s.Channels[ch].position = pos & aica.PlayPositionMask
}

// SetStatus forces the status of channel ch.
func (s *AICA) SetStatus(ch int, status uint32) {
	s.Channels[ch].status = status
}

// Step advances every keyed channel by n samples. A channel reaching its
// loop end wraps to the loop start when looping, and stops otherwise; both
// raise the loop end marker in its status.
func (s *AICA) Step(n uint32) {
	for i := range s.Channels {
		c := &s.Channels[i]
		if !c.keyed {
			continue
		}
		c.position += n
		end := c.LoopEnd.Value & aica.LoopEndMask
		if end == 0 || c.position < end {
			continue
		}
		c.status |= aica.ChannelStatusLoopEndMarker
		if c.PlayControl.Value&aica.PlayControlLoopEnable == 0 {
			c.position = end
			c.keyed = false
			continue
		}
		start := c.LoopStart.Value & aica.LoopStartMask
		if start >= end {
			c.position = start
			continue
		}
		c.position = start + (c.position-end)%(end-start)
	}
}
