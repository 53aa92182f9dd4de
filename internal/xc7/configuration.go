package xc7

import (
	"fmt"

	"example.com/xc7frames/internal/common"
)

// Configuration is the frame memory image described by a packet sequence.
// It is read-only once built.
type Configuration struct {
	part     *Part
	frames   *Frames
	commands []Command
}

// NewConfiguration decodes packets against part. Construction is
// all-or-nothing: any error returns a nil Configuration.
//
// The packet sequence must write IDCODE with part's idcode. FDRI data is
// split into FrameSize chunks starting at the address last written to FAR;
// after each real frame the cursor moves to the next legal address of part,
// and two padding frames are skipped whenever that move crosses a group
// boundary (see SameGroup). Data past the last legal address is discarded.
func NewConfiguration(part *Part, packets []ConfigurationPacket) (*Configuration, error) {
	d := decoder{part: part, frames: NewFrames()}
	for i, pkt := range packets {
		if err := d.apply(pkt); err != nil {
			return nil, fmt.Errorf("packet %d (%s): %w", i, pkt, err)
		}
	}
	if !d.idcodeSeen {
		return nil, fmt.Errorf("%w: IDCODE never written", ErrIdentityMismatch)
	}
	return &Configuration{part: part, frames: d.frames, commands: d.commands}, nil
}

func (c *Configuration) Part() *Part {
	return c.part
}

func (c *Configuration) Frames() *Frames {
	return c.frames
}

// Commands returns the CMD register writes in packet order.
func (c *Configuration) Commands() []Command {
	out := make([]Command, len(c.commands))
	copy(out, c.commands)
	return out
}

type decoder struct {
	part   *Part
	frames *Frames

	idcodeSeen bool
	farSeen    bool
	// cursorOK is false once the cursor ran off the end of the address table.
	cursorOK bool
	cursor   FrameAddress
	commands []Command
}

func (d *decoder) apply(pkt ConfigurationPacket) error {
	if pkt.Opcode != OpcodeWrite {
		// NOP and Read leave frame memory untouched.
		return nil
	}

	switch pkt.Register {
	case RegIDCODE:
		v, err := pkt.scalar()
		if err != nil {
			return err
		}
		if v != d.part.IDCode() {
			return fmt.Errorf("%w: bitstream 0x%08X, part 0x%08X", ErrIdentityMismatch, v, d.part.IDCode())
		}
		d.idcodeSeen = true
	case RegFAR:
		v, err := pkt.scalar()
		if err != nil {
			return err
		}
		d.farSeen = true
		d.cursorOK = true
		d.cursor = FrameAddress(v)
	case RegCMD:
		v, err := pkt.scalar()
		if err != nil {
			return err
		}
		d.commands = append(d.commands, Command(v))
	case RegFDRI:
		return d.writeFrames(pkt.Words)
	}
	return nil
}

func (d *decoder) writeFrames(words []uint32) error {
	if len(words) == 0 {
		return nil
	}
	if !d.farSeen {
		return ErrMissingAddressRegister
	}
	off := 0
	for off < len(words) && d.cursorOK {
		end := off + FrameSize
		if end > len(words) {
			end = len(words)
		}
		addr := d.cursor
		if d.part.Contains(addr) {
			if end-off != FrameSize {
				return fmt.Errorf("%w: %d of %d words for %s", ErrTruncatedFrame, end-off, FrameSize, addr)
			}
			if err := d.frames.Set(addr, words[off:end]); err != nil {
				return err
			}
			off = end
			next, ok := d.part.Next(addr)
			if !ok {
				d.cursorOK = false
				break
			}
			if !SameGroup(addr, next) {
				off += paddingFramesPerBoundary * FrameSize
			}
			d.cursor = next
			continue
		}
		// Not a legal address: the chunk is padding and the cursor snaps to
		// the first legal address above it.
		off = end
		next, ok := d.part.Next(addr)
		if !ok {
			d.cursorOK = false
			break
		}
		d.cursor = next
	}
	// Two trailing padding frames are expected after the last real frame.
	if rest := len(words) - off; rest > paddingFramesPerBoundary*FrameSize {
		common.Logf("discarding %d FDRI words past the end of the address space", rest)
	}
	return nil
}
