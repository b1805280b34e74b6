package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"

	"aica/hw/aica"
)

func newSimSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()
	cfg := defaultConfig
	cfg.Bus.Sim = true
	cfg.Position.Settle = duration{}

	var buf bytes.Buffer
	s, err := openSession(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, &buf
}

// decodedFields parses the text output of writeDecoded.
func decodedFields(out string) map[string]string {
	m := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) == 2 {
			m[f[0]] = f[1]
		}
	}
	return m
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := decode(&buf, "play-control", 0x4280, false); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"play-control": "0x00004280",
		"addr-high":    "0x0",
		"format":       "0x1",
		"loop":         "0x1",
		"unknown":      "0x0",
		"key":          "0x1",
		"aftertouch":   "0x0",
	}
	if diff := cmp.Diff(want, decodedFields(buf.String())); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeUndefinedBits(t *testing.T) {
	var buf bytes.Buffer
	if err := decode(&buf, "master-volume", 0x1000f, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(undefined bits)") {
		t.Errorf("undefined bits not reported:\n%s", buf.String())
	}
}

func TestDecodeDSPBank(t *testing.T) {
	var buf bytes.Buffer
	if err := decode(&buf, "dsp-bank3", 0x8000|0x2a<<9, false); err != nil {
		t.Fatal(err)
	}
	got := decodedFields(buf.String())
	if got["nofl"] != "0x1" || got["masa"] != "0x2a" {
		t.Errorf("decode dsp-bank3 = %v", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := decode(&buf, "pitch", 3<<11|0x155, true); err != nil {
		t.Fatal(err)
	}

	var (
		name   string
		value  uint32
		fields = make(map[string]uint32)
	)
	err := jx.DecodeBytes(buf.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "register":
			name, err = d.Str()
		case "value":
			value, err = d.UInt32()
		case "fields":
			err = d.Obj(func(d *jx.Decoder, key string) error {
				v, err := d.UInt32()
				fields[key] = v
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		t.Fatalf("invalid JSON %s: %v", buf.String(), err)
	}

	if name != "pitch" || value != 3<<11|0x155 {
		t.Errorf("register = %s value = %#x", name, value)
	}
	if diff := cmp.Diff(map[string]uint32{"fns": 0x155, "octave": 3}, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		reg   string
		pairs []string
		want  string
	}{
		{"play-control", []string{"format=1", "loop=1", "key=1"}, "0x00004280\n"},
		{"pitch", []string{"octave=0x1f", "fns=0"}, "0x0000f800\n"},
		{"master-volume", []string{"volume=15", "mono=1"}, "0x0000800f\n"},
		{"dsp-bank0", []string{"tra=0x7f"}, "0x0000fe00\n"},
		{"lpf2", nil, "0x00000000\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := encode(&buf, tt.reg, tt.pairs); err != nil {
			t.Errorf("encode(%s, %q): %v", tt.reg, tt.pairs, err)
			continue
		}
		if buf.String() != tt.want {
			t.Errorf("encode(%s, %q) = %q, want %q", tt.reg, tt.pairs, buf.String(), tt.want)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		reg   string
		pairs []string
	}{
		{"nope", []string{"a=1"}},
		{"pitch", []string{"octave"}},
		{"pitch", []string{"octave=x"}},
		{"pitch", []string{"tempo=1"}},
		{"play-control", []string{"format=4"}},
		{"amp-env2", []string{"key-scale=0x10"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := encode(&buf, tt.reg, tt.pairs); err == nil {
			t.Errorf("encode(%s, %q) succeeded, want an error", tt.reg, tt.pairs)
		}
	}
}

func TestListRegs(t *testing.T) {
	var buf bytes.Buffer
	if err := listRegs(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(aica.Registers)+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(aica.Registers)+1)
	}
	if f := strings.Fields(lines[1]); f[0] != "play-control" || f[1] != "channel" || f[2] != "0000" {
		t.Errorf("first register line = %q", lines[1])
	}
	if !strings.Contains(buf.String(), "octave[15:11]") {
		t.Errorf("pitch octave bit range missing:\n%s", buf.String())
	}
}

func TestListRegsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := listRegsJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var names []string
	err := jx.DecodeBytes(buf.Bytes()).Arr(func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "name" {
				return d.Skip()
			}
			name, err := d.Str()
			names = append(names, name)
			return err
		})
	})
	if err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	var want []string
	for _, r := range aica.Registers {
		want = append(want, r.Name)
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("register names mismatch (-want +got):\n%s", diff)
	}
}

func TestPeekPoke(t *testing.T) {
	s, out := newSimSession(t)

	if err := s.poke("pitch", 5, "", 0x1234); err != nil {
		t.Fatal(err)
	}
	if got := s.sim.Channels[5].Pitch.Value; got != 0x1234 {
		t.Errorf("pitch[5] = %#x, want 0x1234", got)
	}

	if err := s.peek("pitch", 5, false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "pitch @ a0700298\n") {
		t.Errorf("peek output:\n%s", out.String())
	}
	if got := decodedFields(out.String()); got["fns"] != "0x234" || got["octave"] != "0x2" {
		t.Errorf("peek fields = %v", got)
	}
}

func TestPokeField(t *testing.T) {
	s, _ := newSimSession(t)

	if err := s.poke("master-volume", 0, "", aica.MasterVolumeMono); err != nil {
		t.Fatal(err)
	}
	if err := s.poke("master-volume", 0, "volume", 0xa); err != nil {
		t.Fatal(err)
	}
	if got := s.sim.MasterVolume.Value; got != 0x800a {
		t.Errorf("master volume = %#x, want 0x800a", got)
	}

	if err := s.poke("dsp-mix", 15, "pan", 0x1f); err != nil {
		t.Fatal(err)
	}
	if got := s.sim.DSPMix.Word(15 * 4); got != 0x1f {
		t.Errorf("dsp mix 15 = %#x, want 0x1f", got)
	}
}

func TestPeekPokeErrors(t *testing.T) {
	s, _ := newSimSession(t)

	if err := s.peek("pitch", aica.NumChannels, false); err == nil {
		t.Errorf("peek of channel 64 succeeded")
	}
	if err := s.peek("dsp-mix", -1, false); err == nil {
		t.Errorf("peek of mixer lane -1 succeeded")
	}
	if err := s.peek("tempo", 0, false); err == nil {
		t.Errorf("peek of unknown register succeeded")
	}
	if err := s.poke("pitch", 0, "tempo", 1); err == nil {
		t.Errorf("poke of unknown field succeeded")
	}
	if err := s.poke("pitch", 0, "octave", 0x20); err == nil {
		t.Errorf("poke of out of range value succeeded")
	}
	if got := s.sim.Channels[0].Pitch.Value; got != 0 {
		t.Errorf("failed poke wrote %#x", got)
	}
}

func TestPosition(t *testing.T) {
	s, out := newSimSession(t)
	s.sim.SetPosition(7, 0x1234)
	s.sim.SetStatus(7, aica.ChannelStatusLoopEndMarker)

	if err := s.position(7); err != nil {
		t.Fatal(err)
	}
	if want := "ch=7  position=0x1234 loop-end=true\n"; out.String() != want {
		t.Errorf("position output = %q, want %q", out.String(), want)
	}

	// The request register keeps the selected channel.
	if got := s.sim.ChannelInfoRequest.Value; got != 7<<8 {
		t.Errorf("channel info request = %#x, want 0x700", got)
	}

	if err := s.position(64); err == nil {
		t.Errorf("position of channel 64 succeeded")
	}
}

func TestWatch(t *testing.T) {
	s, out := newSimSession(t)
	s.sim.SetPosition(1, 0x10)
	s.sim.SetPosition(2, 0x20)

	if err := s.watch(context.Background(), []int{1, 2}, time.Millisecond, 2); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"ch=1  position=0x0010 loop-end=false",
		"ch=2  position=0x0020 loop-end=false",
		"ch=1  position=0x0010 loop-end=false",
		"ch=2  position=0x0020 loop-end=false",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("watch output mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchCancel(t *testing.T) {
	s, _ := newSimSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.watch(ctx, []int{0}, time.Millisecond, 0); err != nil {
		t.Fatal(err)
	}
}

func TestWatchErrors(t *testing.T) {
	s, _ := newSimSession(t)

	if err := s.watch(context.Background(), nil, time.Millisecond, 1); err == nil {
		t.Errorf("watch without channels succeeded")
	}
	if err := s.watch(context.Background(), []int{0, 99}, time.Millisecond, 1); err == nil {
		t.Errorf("watch of channel 99 succeeded")
	}
}

func TestSessionWindow(t *testing.T) {
	// A plain file stands in for /dev/mem, the registers at its second page.
	page := os.Getpagesize()
	path := filepath.Join(t.TempDir(), "mem")
	if err := os.WriteFile(path, make([]byte, page+aica.RegSpaceSize), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig
	cfg.Bus.DevMem = path
	cfg.Bus.Phys = int64(page)
	cfg.Position.Settle = duration{}

	var out bytes.Buffer
	s, err := openSession(cfg, &out)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.poke("loop-end", 1, "", 0xbeef); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	off := page + int(aica.ChannelOffset(1)+aica.RegLoopEnd)
	if got := buf[off : off+2]; got[0] != 0xef || got[1] != 0xbe {
		t.Errorf("loop-end[1] in file = % x, want ef be", got)
	}
}
