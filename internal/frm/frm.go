// Package frm reads and writes text frame dumps: one frame per line, the
// frame address followed by its words separated by commas.
//
//	0x00400000 0x00000000,0x00000001,...
package frm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"example.com/xc7frames/internal/xc7"
)

// Read parses a frame dump. Blank lines and lines starting with '#' are
// skipped. A later line for the same address replaces the earlier one.
func Read(r io.Reader) (*xc7.Frames, error) {
	frames := xc7.NewFrames()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, words, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := frames.Set(addr, words); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read frames: %w", err)
	}
	return frames, nil
}

func parseLine(line string) (xc7.FrameAddress, []uint32, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, nil, fmt.Errorf("expected address and word list, got %d fields", len(fields))
	}
	addr, err := strconv.ParseUint(fields[0], 0, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("bad frame address %q", fields[0])
	}
	parts := strings.Split(fields[1], ",")
	words := make([]uint32, 0, len(parts))
	for i, p := range parts {
		w, err := strconv.ParseUint(p, 0, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("word %d: bad value %q", i, p)
		}
		words = append(words, uint32(w))
	}
	return xc7.FrameAddress(addr), words, nil
}

// Write emits frames in ascending address order.
func Write(w io.Writer, frames *xc7.Frames) error {
	bw := bufio.NewWriter(w)
	for _, addr := range frames.Addresses() {
		words, _ := frames.Get(addr)
		fmt.Fprintf(bw, "0x%08X ", addr.Raw())
		for i, word := range words {
			if i > 0 {
				bw.WriteByte(',')
			}
			fmt.Fprintf(bw, "0x%08X", word)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func ReadFile(path string) (*xc7.Frames, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	frames, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

func WriteFile(path string, frames *xc7.Frames) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
