package partdb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/xc7frames/internal/xc7"
)

var (
	ErrMissingIDCode = errors.New("part file has no idcode")
	ErrEmptyPart     = errors.New("part file lists no frame addresses")
	ErrBadRange      = errors.New("invalid address range")
)

// maxRangeFrames bounds a single range so a typo cannot allocate the whole
// 32-bit address space.
const maxRangeFrames = 1 << 22

// File is the on-disk description of a part.
type File struct {
	Name      string    `yaml:"name" toml:"name"`
	IDCode    *uint32   `yaml:"idcode" toml:"idcode"`
	Addresses []Address `yaml:"addresses" toml:"addresses"`
	Ranges    []Range   `yaml:"ranges" toml:"ranges"`
}

// Range covers the raw frame addresses [Begin, End).
type Range struct {
	Begin Address `yaml:"begin" toml:"begin"`
	End   Address `yaml:"end" toml:"end"`
}

// Address is written either as a raw integer or as a field mapping:
//
//	begin: 0x00400000
//	begin: {block_type: CLB_IO_CLK, top_half: true, row: 0, column: 0, minor: 0}
type Address struct {
	xc7.FrameAddress
}

type addressFields struct {
	BlockType string `yaml:"block_type"`
	TopHalf   bool   `yaml:"top_half"`
	Row       uint32 `yaml:"row"`
	Column    uint32 `yaml:"column"`
	Minor     uint32 `yaml:"minor"`
}

func (f addressFields) frameAddress() (xc7.FrameAddress, error) {
	bt := xc7.CLB_IO_CLK
	if f.BlockType != "" {
		var err error
		bt, err = xc7.ParseBlockType(strings.ToUpper(strings.TrimSpace(f.BlockType)))
		if err != nil {
			return 0, err
		}
	}
	if f.Row > 0x1F || f.Column > 0x3FF || f.Minor > 0x7F {
		return 0, fmt.Errorf("address field out of range (row=%d column=%d minor=%d)", f.Row, f.Column, f.Minor)
	}
	return xc7.NewFrameAddress(bt, f.TopHalf, f.Row, f.Column, f.Minor), nil
}

func parseRaw(s string) (xc7.FrameAddress, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("frame address %q: %w", s, err)
	}
	return xc7.FrameAddress(v), nil
}

func (a *Address) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		fa, err := parseRaw(value.Value)
		if err != nil {
			return err
		}
		a.FrameAddress = fa
		return nil
	case yaml.MappingNode:
		var f addressFields
		if err := value.Decode(&f); err != nil {
			return err
		}
		fa, err := f.frameAddress()
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		a.FrameAddress = fa
		return nil
	default:
		return fmt.Errorf("line %d: frame address must be an integer or a mapping", value.Line)
	}
}

// UnmarshalTOML accepts integers, numeric strings and inline tables.
func (a *Address) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case int64:
		if v < 0 || v > 0xFFFFFFFF {
			return fmt.Errorf("frame address %d out of range", v)
		}
		a.FrameAddress = xc7.FrameAddress(v)
		return nil
	case string:
		fa, err := parseRaw(v)
		if err != nil {
			return err
		}
		a.FrameAddress = fa
		return nil
	case map[string]any:
		var f addressFields
		for key, val := range v {
			switch key {
			case "block_type":
				s, ok := val.(string)
				if !ok {
					return fmt.Errorf("block_type must be a string")
				}
				f.BlockType = s
			case "top_half":
				b, ok := val.(bool)
				if !ok {
					return fmt.Errorf("top_half must be a boolean")
				}
				f.TopHalf = b
			case "row", "column", "minor":
				n, ok := val.(int64)
				if !ok || n < 0 || n > 0xFFFFFFFF {
					return fmt.Errorf("%s must be a non-negative integer", key)
				}
				switch key {
				case "row":
					f.Row = uint32(n)
				case "column":
					f.Column = uint32(n)
				default:
					f.Minor = uint32(n)
				}
			default:
				return fmt.Errorf("unknown frame address field %q", key)
			}
		}
		fa, err := f.frameAddress()
		if err != nil {
			return err
		}
		a.FrameAddress = fa
		return nil
	default:
		return fmt.Errorf("frame address has unsupported type %T", data)
	}
}

// Build turns a decoded part file into a Part.
func Build(file File) (*xc7.Part, error) {
	if file.IDCode == nil {
		return nil, ErrMissingIDCode
	}
	addrs := make([]xc7.FrameAddress, 0, len(file.Addresses))
	for _, a := range file.Addresses {
		addrs = append(addrs, a.FrameAddress)
	}
	for i, r := range file.Ranges {
		begin, end := r.Begin.Raw(), r.End.Raw()
		if end <= begin {
			return nil, fmt.Errorf("ranges[%d]: %w: end 0x%08X not above begin 0x%08X", i, ErrBadRange, end, begin)
		}
		if end-begin > maxRangeFrames {
			return nil, fmt.Errorf("ranges[%d]: %w: %d frames", i, ErrBadRange, end-begin)
		}
		for v := begin; v < end; v++ {
			addrs = append(addrs, xc7.FrameAddress(v))
		}
	}
	if len(addrs) == 0 {
		return nil, ErrEmptyPart
	}
	return xc7.NewNamedPart(strings.TrimSpace(file.Name), *file.IDCode, addrs), nil
}
