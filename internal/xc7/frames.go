package xc7

import (
	"fmt"
	"sort"
)

// FrameSize is the number of 32-bit words in one configuration frame.
const FrameSize = 101

// Frames maps frame addresses to frame contents. Every stored frame is
// exactly FrameSize words. Iteration helpers return addresses in ascending
// order.
type Frames struct {
	m map[FrameAddress][]uint32
}

func NewFrames() *Frames {
	return &Frames{m: make(map[FrameAddress][]uint32)}
}

// Set stores a copy of words at addr, replacing any previous frame.
func (f *Frames) Set(addr FrameAddress, words []uint32) error {
	if len(words) != FrameSize {
		return fmt.Errorf("%w: %s has %d words", ErrFrameSize, addr, len(words))
	}
	frame := make([]uint32, FrameSize)
	copy(frame, words)
	f.m[addr] = frame
	return nil
}

// Get returns the frame at addr. The returned slice must not be modified.
func (f *Frames) Get(addr FrameAddress) ([]uint32, bool) {
	words, ok := f.m[addr]
	return words, ok
}

func (f *Frames) Delete(addr FrameAddress) {
	delete(f.m, addr)
}

func (f *Frames) Len() int {
	return len(f.m)
}

// Addresses returns the stored addresses in ascending order.
func (f *Frames) Addresses() []FrameAddress {
	out := make([]FrameAddress, 0, len(f.m))
	for addr := range f.m {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddMissing stores an all-zero frame at every legal address of part that
// has no frame yet and returns how many were added.
func (f *Frames) AddMissing(part *Part) int {
	added := 0
	for _, addr := range part.addresses {
		if _, ok := f.m[addr]; ok {
			continue
		}
		f.m[addr] = make([]uint32, FrameSize)
		added++
	}
	return added
}

// Equal reports whether both mappings hold the same addresses with the same
// contents.
func (f *Frames) Equal(other *Frames) bool {
	if f.Len() != other.Len() {
		return false
	}
	for addr, words := range f.m {
		ow, ok := other.m[addr]
		if !ok {
			return false
		}
		for i := range words {
			if words[i] != ow[i] {
				return false
			}
		}
	}
	return true
}

// IsZero reports whether every word of the frame at addr is zero. Missing
// frames report false.
func (f *Frames) IsZero(addr FrameAddress) bool {
	words, ok := f.m[addr]
	if !ok {
		return false
	}
	for _, w := range words {
		if w != 0 {
			return false
		}
	}
	return true
}
