package xc7

import (
	"sort"
	"testing"
)

func TestFrameAddressFields(t *testing.T) {
	tests := []struct {
		name      string
		raw       uint32
		blockType BlockType
		top       bool
		row       uint32
		column    uint32
		minor     uint32
	}{
		{name: "zero", raw: 0x00000000, blockType: CLB_IO_CLK},
		{name: "minor and column", raw: 0x0000456F, blockType: CLB_IO_CLK, column: 0x8A, minor: 0x6F},
		{name: "top half row 1", raw: 0x00420000, blockType: CLB_IO_CLK, top: true, row: 1},
		{name: "block ram", raw: 0x00800080, blockType: BLOCK_RAM, column: 1},
		{name: "cfg clb all fields", raw: 0x017FFFFF, blockType: CFG_CLB, top: true, row: 0x1F, column: 0x3FF, minor: 0x7F},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := FrameAddress(tc.raw)
			if a.BlockType() != tc.blockType {
				t.Fatalf("BlockType = %s, want %s", a.BlockType(), tc.blockType)
			}
			if a.IsTopHalf() != tc.top {
				t.Fatalf("IsTopHalf = %v, want %v", a.IsTopHalf(), tc.top)
			}
			if a.Row() != tc.row || a.Column() != tc.column || a.Minor() != tc.minor {
				t.Fatalf("row/col/minor = %d/%d/%d, want %d/%d/%d",
					a.Row(), a.Column(), a.Minor(), tc.row, tc.column, tc.minor)
			}
			packed := NewFrameAddress(tc.blockType, tc.top, tc.row, tc.column, tc.minor)
			if packed.Raw() != tc.raw {
				t.Fatalf("NewFrameAddress = 0x%08X, want 0x%08X", packed.Raw(), tc.raw)
			}
		})
	}
}

func TestFrameAddressRawPreserved(t *testing.T) {
	for _, raw := range []uint32{0xFFFFFFFF, 0xFC000000, 0x12345678} {
		if got := FrameAddress(raw).Raw(); got != raw {
			t.Fatalf("Raw = 0x%08X, want 0x%08X", got, raw)
		}
	}
}

func TestFrameAddressOrderMatchesFields(t *testing.T) {
	var addrs []FrameAddress
	for _, bt := range []BlockType{CFG_CLB, CLB_IO_CLK, BLOCK_RAM} {
		for _, top := range []bool{true, false} {
			for _, row := range []uint32{3, 0} {
				for _, col := range []uint32{7, 1} {
					for _, minor := range []uint32{2, 0} {
						addrs = append(addrs, NewFrameAddress(bt, top, row, col, minor))
					}
				}
			}
		}
	}
	byRaw := append([]FrameAddress(nil), addrs...)
	sort.Slice(byRaw, func(i, j int) bool { return byRaw[i].Compare(byRaw[j]) < 0 })

	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	byFields := append([]FrameAddress(nil), addrs...)
	sort.Slice(byFields, func(i, j int) bool {
		a, b := byFields[i], byFields[j]
		if a.BlockType() != b.BlockType() {
			return a.BlockType() < b.BlockType()
		}
		if a.IsTopHalf() != b.IsTopHalf() {
			return b2i(a.IsTopHalf()) < b2i(b.IsTopHalf())
		}
		if a.Row() != b.Row() {
			return a.Row() < b.Row()
		}
		if a.Column() != b.Column() {
			return a.Column() < b.Column()
		}
		return a.Minor() < b.Minor()
	})
	for i := range byRaw {
		if byRaw[i] != byFields[i] {
			t.Fatalf("order differs at %d: %s vs %s", i, byRaw[i], byFields[i])
		}
	}
}

func TestSameGroup(t *testing.T) {
	a := NewFrameAddress(CLB_IO_CLK, true, 1, 5, 3)
	tests := []struct {
		name string
		b    FrameAddress
		want bool
	}{
		{name: "identical", b: a, want: true},
		{name: "minor", b: NewFrameAddress(CLB_IO_CLK, true, 1, 5, 0), want: true},
		{name: "column", b: NewFrameAddress(CLB_IO_CLK, true, 1, 9, 3), want: true},
		{name: "row", b: NewFrameAddress(CLB_IO_CLK, true, 2, 5, 3), want: false},
		{name: "half", b: NewFrameAddress(CLB_IO_CLK, false, 1, 5, 3), want: false},
		{name: "block type", b: NewFrameAddress(BLOCK_RAM, true, 1, 5, 3), want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameGroup(a, tc.b); got != tc.want {
				t.Fatalf("SameGroup(%s, %s) = %v, want %v", a, tc.b, got, tc.want)
			}
		})
	}
}

func TestParseBlockType(t *testing.T) {
	for _, bt := range []BlockType{CLB_IO_CLK, BLOCK_RAM, CFG_CLB, BlockType(5)} {
		got, err := ParseBlockType(bt.String())
		if err != nil {
			t.Fatalf("ParseBlockType(%q): %v", bt.String(), err)
		}
		if got != bt {
			t.Fatalf("ParseBlockType(%q) = %s, want %s", bt.String(), got, bt)
		}
	}
	if _, err := ParseBlockType("DSP"); err == nil {
		t.Fatalf("expected error for unknown block type")
	}
}
