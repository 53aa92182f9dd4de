package xc7

import (
	"fmt"
	"strconv"
	"strings"
)

type Opcode uint8

const (
	OpcodeNOP   Opcode = 0x0
	OpcodeRead  Opcode = 0x1
	OpcodeWrite Opcode = 0x2
)

func (o Opcode) String() string {
	switch o {
	case OpcodeNOP:
		return "NOP"
	case OpcodeRead:
		return "Read"
	case OpcodeWrite:
		return "Write"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

// ParseOpcode accepts the names printed by Opcode.String or a number.
func ParseOpcode(s string) (Opcode, error) {
	s = strings.TrimSpace(s)
	for _, o := range []Opcode{OpcodeNOP, OpcodeRead, OpcodeWrite} {
		if strings.EqualFold(s, o.String()) {
			return o, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 2)
	if err != nil {
		return 0, fmt.Errorf("unknown opcode %q", s)
	}
	return Opcode(n), nil
}

func (o Opcode) MarshalText() ([]byte, error) {
	if o > OpcodeWrite {
		return []byte(strconv.Itoa(int(o))), nil
	}
	return []byte(o.String()), nil
}

func (o *Opcode) UnmarshalText(text []byte) error {
	v, err := ParseOpcode(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Register is a configuration register address as carried in a packet header.
type Register uint32

const (
	RegCRC     Register = 0x00
	RegFAR     Register = 0x01
	RegFDRI    Register = 0x02
	RegFDRO    Register = 0x03
	RegCMD     Register = 0x04
	RegCTL0    Register = 0x05
	RegMASK    Register = 0x06
	RegSTAT    Register = 0x07
	RegLOUT    Register = 0x08
	RegCOR0    Register = 0x09
	RegMFWR    Register = 0x0A
	RegCBC     Register = 0x0B
	RegIDCODE  Register = 0x0C
	RegAXSS    Register = 0x0D
	RegCOR1    Register = 0x0E
	RegWBSTAR  Register = 0x10
	RegTIMER   Register = 0x11
	RegBOOTSTS Register = 0x16
	RegCTL1    Register = 0x18
	RegBSPI    Register = 0x1F
)

var registerNames = map[Register]string{
	RegCRC:     "CRC",
	RegFAR:     "FAR",
	RegFDRI:    "FDRI",
	RegFDRO:    "FDRO",
	RegCMD:     "CMD",
	RegCTL0:    "CTL0",
	RegMASK:    "MASK",
	RegSTAT:    "STAT",
	RegLOUT:    "LOUT",
	RegCOR0:    "COR0",
	RegMFWR:    "MFWR",
	RegCBC:     "CBC",
	RegIDCODE:  "IDCODE",
	RegAXSS:    "AXSS",
	RegCOR1:    "COR1",
	RegWBSTAR:  "WBSTAR",
	RegTIMER:   "TIMER",
	RegBOOTSTS: "BOOTSTS",
	RegCTL1:    "CTL1",
	RegBSPI:    "BSPI",
}

func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Register(0x%02X)", uint32(r))
}

// ParseRegister accepts a register name such as "FDRI" or a register number.
func ParseRegister(s string) (Register, error) {
	s = strings.TrimSpace(s)
	for r, name := range registerNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown register %q", s)
	}
	return Register(n), nil
}

func (r Register) MarshalText() ([]byte, error) {
	if name, ok := registerNames[r]; ok {
		return []byte(name), nil
	}
	return []byte(fmt.Sprintf("0x%02X", uint32(r))), nil
}

func (r *Register) UnmarshalText(text []byte) error {
	v, err := ParseRegister(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Command is a value written to the CMD register.
type Command uint32

const (
	CmdNULL     Command = 0x00
	CmdWCFG     Command = 0x01
	CmdMFW      Command = 0x02
	CmdLFRM     Command = 0x03
	CmdRCFG     Command = 0x04
	CmdSTART    Command = 0x05
	CmdRCAP     Command = 0x06
	CmdRCRC     Command = 0x07
	CmdAGHIGH   Command = 0x08
	CmdSWITCH   Command = 0x09
	CmdGRESTORE Command = 0x0A
	CmdSHUTDOWN Command = 0x0B
	CmdGCAPTURE Command = 0x0C
	CmdDESYNC   Command = 0x0D
	CmdIPROG    Command = 0x0F
	CmdCRCC     Command = 0x10
	CmdLTIMER   Command = 0x11
)

var commandNames = map[Command]string{
	CmdNULL:     "NULL",
	CmdWCFG:     "WCFG",
	CmdMFW:      "MFW",
	CmdLFRM:     "LFRM",
	CmdRCFG:     "RCFG",
	CmdSTART:    "START",
	CmdRCAP:     "RCAP",
	CmdRCRC:     "RCRC",
	CmdAGHIGH:   "AGHIGH",
	CmdSWITCH:   "SWITCH",
	CmdGRESTORE: "GRESTORE",
	CmdSHUTDOWN: "SHUTDOWN",
	CmdGCAPTURE: "GCAPTURE",
	CmdDESYNC:   "DESYNC",
	CmdIPROG:    "IPROG",
	CmdCRCC:     "CRCC",
	CmdLTIMER:   "LTIMER",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02X)", uint32(c))
}

// ConfigurationPacket is one register transaction as produced by a bitstream
// reader. Words aliases the reader's buffer; consumers copy what they keep.
type ConfigurationPacket struct {
	HeaderType uint8
	Opcode     Opcode
	Register   Register
	Words      []uint32
}

func (p ConfigurationPacket) String() string {
	return fmt.Sprintf("type%d %s %s (%d words)", p.HeaderType, p.Opcode, p.Register, len(p.Words))
}

// scalar returns the single word of a one-word register write.
func (p ConfigurationPacket) scalar() (uint32, error) {
	if len(p.Words) != 1 {
		return 0, fmt.Errorf("%w: %s write carries %d words", ErrMalformedScalarPayload, p.Register, len(p.Words))
	}
	return p.Words[0], nil
}
