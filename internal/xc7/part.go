package xc7

import (
	"fmt"
	"sort"
)

// Part describes one device: its IDCODE and every frame address that exists
// on it. A Part is immutable after NewPart and safe to share between
// goroutines.
type Part struct {
	name      string
	idcode    uint32
	addresses []FrameAddress
}

// NewPart copies, sorts and de-duplicates addresses.
func NewPart(idcode uint32, addresses []FrameAddress) *Part {
	return NewNamedPart("", idcode, addresses)
}

func NewNamedPart(name string, idcode uint32, addresses []FrameAddress) *Part {
	sorted := make([]FrameAddress, len(addresses))
	copy(sorted, addresses)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	uniq := sorted[:0]
	for i, a := range sorted {
		if i > 0 && a == sorted[i-1] {
			continue
		}
		uniq = append(uniq, a)
	}
	return &Part{name: name, idcode: idcode, addresses: uniq}
}

func (p *Part) Name() string {
	return p.name
}

func (p *Part) IDCode() uint32 {
	return p.idcode
}

// Len returns the number of legal frame addresses.
func (p *Part) Len() int {
	return len(p.addresses)
}

// Addresses returns the legal addresses in ascending order. The slice is a
// copy.
func (p *Part) Addresses() []FrameAddress {
	out := make([]FrameAddress, len(p.addresses))
	copy(out, p.addresses)
	return out
}

// Contains reports whether addr is a legal frame address on this part.
func (p *Part) Contains(addr FrameAddress) bool {
	i := p.search(addr)
	return i < len(p.addresses) && p.addresses[i] == addr
}

// Next returns the smallest legal address strictly greater than addr. addr
// itself need not be legal.
func (p *Part) Next(addr FrameAddress) (FrameAddress, bool) {
	i := p.search(addr)
	if i < len(p.addresses) && p.addresses[i] == addr {
		i++
	}
	if i >= len(p.addresses) {
		return 0, false
	}
	return p.addresses[i], true
}

func (p *Part) search(addr FrameAddress) int {
	return sort.Search(len(p.addresses), func(i int) bool { return p.addresses[i] >= addr })
}

func (p *Part) String() string {
	if p.name != "" {
		return fmt.Sprintf("%s (idcode 0x%08X, %d frames)", p.name, p.idcode, len(p.addresses))
	}
	return fmt.Sprintf("idcode 0x%08X, %d frames", p.idcode, len(p.addresses))
}
