package xc7

import (
	"encoding/binary"
	"fmt"
)

const paddingFramesPerBoundary = 2

// BuildPacketPayload returns the FDRI word stream for frames: frame data in
// ascending address order, two zero frames wherever consecutive frames fall
// in different groups, and two zero frames at the end. Padding depends only
// on the addresses present in frames; part is not consulted for it.
func BuildPacketPayload(frames *Frames, part *Part) []uint32 {
	addrs := frames.Addresses()
	payload := make([]uint32, 0, (len(addrs)+paddingFramesPerBoundary)*FrameSize)
	for i, addr := range addrs {
		if i > 0 && !SameGroup(addrs[i-1], addr) {
			payload = appendPadding(payload)
		}
		words, _ := frames.Get(addr)
		payload = append(payload, words...)
	}
	return appendPadding(payload)
}

func appendPadding(payload []uint32) []uint32 {
	return append(payload, make([]uint32, paddingFramesPerBoundary*FrameSize)...)
}

// BuildPackets wraps the payload for frames in the register writes needed to
// load it: IDCODE, FAR at the lowest address, CMD WCFG, then one FDRI write.
// Decoding the result against part reproduces frames when they cover a
// contiguous run of part's address table.
func BuildPackets(frames *Frames, part *Part) []ConfigurationPacket {
	packets := []ConfigurationPacket{
		{HeaderType: 1, Opcode: OpcodeWrite, Register: RegIDCODE, Words: []uint32{part.IDCode()}},
	}
	addrs := frames.Addresses()
	if len(addrs) == 0 {
		return packets
	}
	return append(packets,
		ConfigurationPacket{HeaderType: 1, Opcode: OpcodeWrite, Register: RegFAR, Words: []uint32{addrs[0].Raw()}},
		ConfigurationPacket{HeaderType: 1, Opcode: OpcodeWrite, Register: RegCMD, Words: []uint32{uint32(CmdWCFG)}},
		ConfigurationPacket{HeaderType: 2, Opcode: OpcodeWrite, Register: RegFDRI, Words: BuildPacketPayload(frames, part)},
	)
}

// WordsToBytes serialises words big-endian, the byte order of a bitstream.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(out[4*i:], w)
	}
	return out
}

func BytesToWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrWordAlignment, len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(b[4*i:])
	}
	return words, nil
}
