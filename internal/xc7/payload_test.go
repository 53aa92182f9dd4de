package xc7

import (
	"errors"
	"testing"
)

func framesOf(t *testing.T, values map[FrameAddress]uint32) *Frames {
	t.Helper()
	frames := NewFrames()
	for addr, v := range values {
		if err := frames.Set(addr, filled(FrameSize, v)); err != nil {
			t.Fatalf("Set(%s): %v", addr, err)
		}
	}
	return frames
}

// layout summarises a payload frame by frame: the fill value of each data
// frame, or 0 for padding.
func layout(t *testing.T, payload []uint32) []uint32 {
	t.Helper()
	if len(payload)%FrameSize != 0 {
		t.Fatalf("payload length %d is not a multiple of %d", len(payload), FrameSize)
	}
	out := make([]uint32, 0, len(payload)/FrameSize)
	for off := 0; off < len(payload); off += FrameSize {
		out = append(out, payload[off])
	}
	return out
}

func TestBuildPacketPayloadPadding(t *testing.T) {
	base := NewFrameAddress(CLB_IO_CLK, false, 2, 10, 0)
	tests := []struct {
		name   string
		frames map[FrameAddress]uint32
		want   []uint32
	}{
		{
			name:   "empty",
			frames: map[FrameAddress]uint32{},
			want:   []uint32{0, 0},
		},
		{
			name:   "single",
			frames: map[FrameAddress]uint32{base: 0xA},
			want:   []uint32{0xA, 0, 0},
		},
		{
			name: "minor and column changes",
			frames: map[FrameAddress]uint32{
				base: 0xA,
				NewFrameAddress(CLB_IO_CLK, false, 2, 10, 1): 0xB,
				NewFrameAddress(CLB_IO_CLK, false, 2, 11, 0): 0xC,
			},
			want: []uint32{0xA, 0xB, 0xC, 0, 0},
		},
		{
			name: "row change",
			frames: map[FrameAddress]uint32{
				base: 0xA,
				NewFrameAddress(CLB_IO_CLK, false, 3, 0, 0): 0xB,
			},
			want: []uint32{0xA, 0, 0, 0xB, 0, 0},
		},
		{
			name: "half change",
			frames: map[FrameAddress]uint32{
				base: 0xA,
				NewFrameAddress(CLB_IO_CLK, true, 2, 10, 0): 0xB,
			},
			want: []uint32{0xA, 0, 0, 0xB, 0, 0},
		},
		{
			name: "block type change",
			frames: map[FrameAddress]uint32{
				base: 0xA,
				NewFrameAddress(BLOCK_RAM, false, 2, 10, 0): 0xB,
			},
			want: []uint32{0xA, 0, 0, 0xB, 0, 0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frames := framesOf(t, tc.frames)
			got := layout(t, BuildPacketPayload(frames, NewPart(0x1, nil)))
			if len(got) != len(tc.want) {
				t.Fatalf("layout = %X, want %X", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("layout = %X, want %X", got, tc.want)
				}
			}
		})
	}
}

func TestBuildPacketPayloadPaddingIsZero(t *testing.T) {
	frames := framesOf(t, map[FrameAddress]uint32{
		NewFrameAddress(CLB_IO_CLK, false, 0, 0, 0): 0xFFFFFFFF,
		NewFrameAddress(CLB_IO_CLK, false, 1, 0, 0): 0xFFFFFFFF,
	})
	payload := BuildPacketPayload(frames, NewPart(0x1, nil))
	if len(payload) != 6*FrameSize {
		t.Fatalf("payload = %d words, want %d", len(payload), 6*FrameSize)
	}
	for _, span := range [][2]int{{1, 3}, {4, 6}} {
		for i := span[0] * FrameSize; i < span[1]*FrameSize; i++ {
			if payload[i] != 0 {
				t.Fatalf("padding word %d = 0x%X, want 0", i, payload[i])
			}
		}
	}
}

func TestBuildPacketsRoundTrip(t *testing.T) {
	var addrs []FrameAddress
	for _, bt := range []BlockType{CLB_IO_CLK, BLOCK_RAM} {
		for _, top := range []bool{true, false} {
			for row := uint32(0); row < 2; row++ {
				for col := uint32(0); col < 3; col++ {
					for minor := uint32(0); minor < 4; minor++ {
						addrs = append(addrs, NewFrameAddress(bt, top, row, col, minor))
					}
				}
			}
		}
	}
	part := NewPart(0x0362D093, addrs)

	frames := NewFrames()
	for i, addr := range part.Addresses() {
		if i%5 == 0 {
			continue
		}
		words := filled(FrameSize, uint32(i))
		words[50] = addr.Raw()
		if err := frames.Set(addr, words); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	want := NewFrames()
	for _, addr := range frames.Addresses() {
		words, _ := frames.Get(addr)
		_ = want.Set(addr, words)
	}
	if added := frames.AddMissing(part); added == 0 {
		t.Fatalf("AddMissing added nothing")
	}
	for _, addr := range part.Addresses() {
		if _, ok := want.Get(addr); !ok {
			_ = want.Set(addr, make([]uint32, FrameSize))
		}
	}

	packets := BuildPackets(frames, part)
	if len(packets) != 4 {
		t.Fatalf("packets = %d, want 4", len(packets))
	}
	if packets[3].Register != RegFDRI || packets[3].HeaderType != 2 {
		t.Fatalf("last packet = %s, want type2 FDRI", packets[3])
	}
	cfg, err := NewConfiguration(part, packets)
	if err != nil {
		t.Fatalf("NewConfiguration: %v", err)
	}
	if !cfg.Frames().Equal(want) {
		t.Fatalf("round trip mismatch: %d frames decoded, want %d", cfg.Frames().Len(), want.Len())
	}
	if cmds := cfg.Commands(); len(cmds) != 1 || cmds[0] != CmdWCFG {
		t.Fatalf("commands = %v, want [WCFG]", cmds)
	}
}

func TestBuildPacketsEmptyFrames(t *testing.T) {
	part := NewPart(0x1234, []FrameAddress{0x1})
	packets := BuildPackets(NewFrames(), part)
	if len(packets) != 1 || packets[0].Register != RegIDCODE {
		t.Fatalf("packets = %v, want only IDCODE", packets)
	}
	cfg, err := NewConfiguration(part, packets)
	if err != nil {
		t.Fatalf("NewConfiguration: %v", err)
	}
	if cfg.Frames().Len() != 0 {
		t.Fatalf("frames = %d, want 0", cfg.Frames().Len())
	}
}

func TestWordsBytesConversion(t *testing.T) {
	words := []uint32{0xAA995566, 0x20000000, 0x00000001}
	b := WordsToBytes(words)
	if len(b) != 12 || b[0] != 0xAA || b[3] != 0x66 || b[11] != 0x01 {
		t.Fatalf("WordsToBytes = % X", b)
	}
	back, err := BytesToWords(b)
	if err != nil {
		t.Fatalf("BytesToWords: %v", err)
	}
	for i := range words {
		if back[i] != words[i] {
			t.Fatalf("word %d = 0x%08X, want 0x%08X", i, back[i], words[i])
		}
	}
	if _, err := BytesToWords(b[:5]); !errors.Is(err, ErrWordAlignment) {
		t.Fatalf("err = %v, want ErrWordAlignment", err)
	}
}

// Decode walks the part's address table, so a gap between frames of one
// group shifts later frames down. Filling the gap restores the round trip.
func TestBuildPacketsSparseFramesShift(t *testing.T) {
	part := NewPart(0x1234, []FrameAddress{0x10, 0x11, 0x12})
	frames := framesOf(t, map[FrameAddress]uint32{0x10: 0xA, 0x12: 0xC})

	cfg, err := NewConfiguration(part, BuildPackets(frames, part))
	if err != nil {
		t.Fatalf("NewConfiguration: %v", err)
	}
	got := cfg.Frames()
	if got.Equal(frames) {
		t.Fatalf("sparse frames round-tripped unexpectedly")
	}
	if got.Len() != 3 {
		t.Fatalf("decoded %d frames, want 3", got.Len())
	}
	assertFrame(t, got, 0x10, filled(FrameSize, 0xA))
	assertFrame(t, got, 0x11, filled(FrameSize, 0xC))
	assertFrame(t, got, 0x12, filled(FrameSize, 0))

	if n := frames.AddMissing(part); n != 1 {
		t.Fatalf("AddMissing = %d, want 1", n)
	}
	cfg, err = NewConfiguration(part, BuildPackets(frames, part))
	if err != nil {
		t.Fatalf("NewConfiguration: %v", err)
	}
	if !cfg.Frames().Equal(frames) {
		t.Fatalf("filled frames did not round-trip: %v", cfg.Frames().Addresses())
	}
}
