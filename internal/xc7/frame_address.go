package xc7

import "fmt"

// BlockType selects which configuration memory a frame address targets.
type BlockType uint32

const (
	CLB_IO_CLK BlockType = 0x0
	BLOCK_RAM  BlockType = 0x1
	CFG_CLB    BlockType = 0x2
)

func (b BlockType) String() string {
	switch b {
	case CLB_IO_CLK:
		return "CLB_IO_CLK"
	case BLOCK_RAM:
		return "BLOCK_RAM"
	case CFG_CLB:
		return "CFG_CLB"
	default:
		return fmt.Sprintf("BLOCK_TYPE_%d", uint32(b))
	}
}

// ParseBlockType accepts the names printed by BlockType.String.
func ParseBlockType(s string) (BlockType, error) {
	switch s {
	case "CLB_IO_CLK":
		return CLB_IO_CLK, nil
	case "BLOCK_RAM":
		return BLOCK_RAM, nil
	case "CFG_CLB":
		return CFG_CLB, nil
	}
	var n uint32
	if _, err := fmt.Sscanf(s, "BLOCK_TYPE_%d", &n); err == nil && n <= blockTypeMask {
		return BlockType(n), nil
	}
	return 0, fmt.Errorf("unknown block type %q", s)
}

const (
	minorShift     = 0
	minorMask      = 0x7F
	columnShift    = 7
	columnMask     = 0x3FF
	rowShift       = 17
	rowMask        = 0x1F
	halfShift      = 22
	blockTypeShift = 23
	blockTypeMask  = 0x7
)

// FrameAddress is a packed FAR value. Field order from the most significant
// bit down is block type, half, row, column, minor, so numeric order of the
// raw value is the lexicographic order of the fields.
type FrameAddress uint32

// NewFrameAddress packs the fields into a frame address. Values wider than
// their field are truncated.
func NewFrameAddress(blockType BlockType, isTopHalf bool, row, column, minor uint32) FrameAddress {
	v := (uint32(blockType)&blockTypeMask)<<blockTypeShift |
		(row&rowMask)<<rowShift |
		(column&columnMask)<<columnShift |
		(minor&minorMask)<<minorShift
	if isTopHalf {
		v |= 1 << halfShift
	}
	return FrameAddress(v)
}

func (a FrameAddress) BlockType() BlockType {
	return BlockType((uint32(a) >> blockTypeShift) & blockTypeMask)
}

func (a FrameAddress) IsTopHalf() bool {
	return (uint32(a)>>halfShift)&1 == 1
}

func (a FrameAddress) Row() uint32 {
	return (uint32(a) >> rowShift) & rowMask
}

func (a FrameAddress) Column() uint32 {
	return (uint32(a) >> columnShift) & columnMask
}

func (a FrameAddress) Minor() uint32 {
	return (uint32(a) >> minorShift) & minorMask
}

// Raw returns the 32-bit register value, including any bits above the block
// type field.
func (a FrameAddress) Raw() uint32 {
	return uint32(a)
}

// Compare returns -1, 0 or +1.
func (a FrameAddress) Compare(b FrameAddress) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (a FrameAddress) String() string {
	half := "bottom"
	if a.IsTopHalf() {
		half = "top"
	}
	return fmt.Sprintf("0x%08X(%s,%s,row=%d,col=%d,minor=%d)",
		uint32(a), a.BlockType(), half, a.Row(), a.Column(), a.Minor())
}

// SameGroup reports whether two addresses share block type, half and row.
// Crossing a group boundary costs two padding frames in an FDRI payload;
// column and minor changes never do.
func SameGroup(a, b FrameAddress) bool {
	return a.BlockType() == b.BlockType() &&
		a.IsTopHalf() == b.IsTopHalf() &&
		a.Row() == b.Row()
}
