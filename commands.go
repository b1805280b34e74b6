package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"aica/hw/aica"
	"aica/hw/aica/sim"
	"aica/hw/hwio"
	"aica/hw/mmio"
	"aica/log"
)

// session gives commands access to the registers of one chip.
type session struct {
	chip     aica.Chip
	settle   time.Duration
	interval time.Duration
	out      io.Writer

	sim   *sim.AICA // nil when accessing the hardware
	close func() error
}

func openSession(cfg Config, out io.Writer) (*session, error) {
	base, ok := sideBase(cfg.Bus.Side)
	if !ok {
		return nil, errors.Errorf("invalid bus side %q", cfg.Bus.Side)
	}
	s := &session{
		settle:   cfg.Position.Settle.Duration,
		interval: cfg.Position.Interval.Duration,
		out:      out,
		close:    func() error { return nil },
	}
	if cfg.Bus.Sim {
		s.sim = sim.New(base)
		s.chip = aica.Chip{Bus: s.sim, Base: base}
		log.ModCLI.WithFields(log.Fields{
			"side": cfg.Bus.Side,
			"base": fmt.Sprintf("%08x", base),
		}).Infof("using simulated chip")
		return s, nil
	}

	phys := cfg.Bus.physAddr()
	log.ModCLI.WithField("devmem", cfg.Bus.DevMem).
		WithField("phys", fmt.Sprintf("%#x", phys)).
		Infof("mapping %s register space", cfg.Bus.Side)
	w, err := mmio.Open(cfg.Bus.DevMem, phys, base, aica.RegSpaceSize)
	if err != nil {
		return nil, err
	}
	s.chip = aica.Chip{Bus: w, Base: base}
	s.close = w.Close
	return s, nil
}

func (s *session) Close() error { return s.close() }

func (s *session) run(cli CLI) error {
	switch cli.mode {
	case peekMode:
		return s.peek(cli.Peek.Register, cli.Peek.Index, cli.Peek.JSON)
	case pokeMode:
		return s.poke(cli.Poke.Register, cli.Poke.Index, cli.Poke.Field, uint32(cli.Poke.Value))
	case positionMode:
		return s.position(cli.Position.Channel)
	case watchMode:
		interval := s.interval
		if cli.Watch.Interval > 0 {
			interval = cli.Watch.Interval
		}
		return s.watch(context.Background(), cli.Watch.Channels, interval, cli.Watch.Count)
	}
	return errors.Errorf("unexpected mode %d", cli.mode)
}

func lookupRegister(name string, index int) (aica.Register, error) {
	r, ok := aica.LookupRegister(name)
	if !ok {
		return aica.Register{}, errors.Errorf("unknown register %q", name)
	}
	if r.Scope != aica.ScopeGlobal && (index < 0 || index >= r.Scope.Count()) {
		return aica.Register{}, errors.Errorf("%s: %s index %d out of range [0,%d]", name, r.Scope, index, r.Scope.Count()-1)
	}
	return r, nil
}

// lookupLayout returns the field layout of a register or a DSP instruction
// bank.
func lookupLayout(name string) (hwio.Layout, error) {
	if r, ok := aica.LookupRegister(name); ok {
		return r.Layout, nil
	}
	for _, l := range aica.DSPBanks {
		if l.Name == name {
			return l, nil
		}
	}
	return hwio.Layout{}, errors.Errorf("unknown register %q", name)
}

func checkChannel(ch int) error {
	if ch < 0 || ch >= aica.NumChannels {
		return errors.Errorf("channel %d out of range [0,%d]", ch, aica.NumChannels-1)
	}
	return nil
}

func (s *session) peek(name string, index int, asJSON bool) error {
	r, err := lookupRegister(name, index)
	if err != nil {
		return err
	}
	addr := r.Addr(s.chip.Base, index)
	val := aica.GetReg(s.chip.Bus, addr)
	log.ModCLI.DebugZ("peek").String("reg", name).Hex32("addr", addr).Hex32("val", val).End()

	if asJSON {
		return writeDecodedJSON(s.out, r.Layout, val, &addr)
	}
	fmt.Fprintf(s.out, "%s @ %08x\n", name, addr)
	return writeDecoded(s.out, r.Layout, val)
}

// poke writes val to a register. With a field name, only that field is
// updated through a read-modify-write.
func (s *session) poke(name string, index int, field string, val uint32) error {
	r, err := lookupRegister(name, index)
	if err != nil {
		return err
	}
	addr := r.Addr(s.chip.Base, index)
	if field == "" {
		aica.SetReg(s.chip.Bus, addr, val)
		log.ModCLI.DebugZ("poke").String("reg", name).Hex32("addr", addr).Hex32("val", val).End()
		return nil
	}

	f, ok := r.Field(field)
	if !ok {
		return errors.Errorf("%s: unknown field %q", name, field)
	}
	if !f.Valid(val) {
		return errors.Errorf("%s: %s value %#x out of range [%#x,%#x]", name, field, val, f.Min, f.Max)
	}
	s.chip.UpdateField(addr, f, val)
	log.ModCLI.DebugZ("poke field").String("reg", name).String("field", field).Hex32("addr", addr).Hex32("val", val).End()
	return nil
}

type sample struct {
	channel  int
	position uint32
	status   uint32
}

// sample selects channel ch, waits for the selection to settle, then reads
// its status and play position.
func (s *session) sample(ch int) sample {
	s.chip.RequestChannelInfo(ch)
	if s.settle > 0 {
		time.Sleep(s.settle)
	}
	return sample{
		channel:  ch,
		status:   s.chip.ChannelStatus(),
		position: s.chip.PlayPosition(),
	}
}

func (smp sample) String() string {
	loopEnd := smp.status&aica.ChannelStatusLoopEndMarker != 0
	return fmt.Sprintf("ch=%-2d position=%#04x loop-end=%t", smp.channel, smp.position&aica.PlayPositionMask, loopEnd)
}

func (s *session) position(ch int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.out, s.sample(ch))
	return err
}

// watch samples channels every interval until ctx is done, the process is
// interrupted or count polls are done (count 0 means no limit). Bus accesses
// all happen in the polling goroutine, output is written by another one.
func (s *session) watch(ctx context.Context, channels []int, interval time.Duration, count int) error {
	if len(channels) == 0 {
		return errors.New("no channel to watch")
	}
	for _, ch := range channels {
		if err := checkChannel(ch); err != nil {
			return err
		}
	}

	log.ModCLI.Debugf("watching %d channels every %s", len(channels), interval)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	samples := make(chan sample)

	g.Go(func() error {
		defer close(samples)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for n := 0; count == 0 || n < count; n++ {
			if n > 0 {
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return nil
				}
			}
			for _, ch := range channels {
				select {
				case samples <- s.sample(ch):
				case <-ctx.Done():
					return nil
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		for smp := range samples {
			if _, err := fmt.Fprintln(s.out, smp); err != nil {
				return errors.Wrap(err, "write sample")
			}
		}
		return nil
	})

	return g.Wait()
}

func listRegs(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGISTER\tSCOPE\tOFFSET\tFIELDS")
	for _, r := range aica.Registers {
		var fields []string
		for _, f := range r.Fields {
			fields = append(fields, fmt.Sprintf("%s[%d:%d]", f.Name, int(f.Shift)+f.Width()-1, f.Shift))
		}
		fmt.Fprintf(tw, "%s\t%s\t%04x\t%s\n", r.Name, r.Scope, r.Offset, strings.Join(fields, " "))
	}
	return tw.Flush()
}

func writeDecoded(w io.Writer, l hwio.Layout, val uint32) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t0x%08x\n", l.Name, val)
	for _, fv := range l.Decode(val) {
		fmt.Fprintf(tw, "  %s\t%#x\n", fv.Name, fv.Value)
	}
	if rest := val &^ l.Mask(); rest != 0 && len(l.Fields) > 0 {
		fmt.Fprintf(tw, "  (undefined bits)\t%#x\n", rest)
	}
	return tw.Flush()
}

func decode(w io.Writer, name string, val uint32, asJSON bool) error {
	l, err := lookupLayout(name)
	if err != nil {
		return err
	}
	if asJSON {
		return writeDecodedJSON(w, l, val, nil)
	}
	return writeDecoded(w, l, val)
}

// encode parses FIELD=VALUE pairs and prints the register value they make.
func encode(w io.Writer, name string, pairs []string) error {
	l, err := lookupLayout(name)
	if err != nil {
		return err
	}
	values := make(map[string]uint32, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return errors.Errorf("invalid field value %q, want FIELD=VALUE", p)
		}
		val, err := parseWord(v)
		if err != nil {
			return errors.Wrapf(err, "field %s", k)
		}
		values[k] = val
	}
	word, err := l.Encode(values)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "0x%08x\n", word)
	return err
}
