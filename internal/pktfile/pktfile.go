// Package pktfile stores a sequence of configuration packets as YAML so an
// encoded configuration can be inspected, edited and decoded again.
//
//	packets:
//	  - type: 1
//	    opcode: Write
//	    register: FAR
//	    words: [4194304]
package pktfile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"example.com/xc7frames/internal/xc7"
)

type File struct {
	Packets []Record `yaml:"packets"`
}

type Record struct {
	Type     uint8        `yaml:"type"`
	Opcode   xc7.Opcode   `yaml:"opcode"`
	Register xc7.Register `yaml:"register"`
	Words    []uint32     `yaml:"words,flow"`
}

func Write(w io.Writer, packets []xc7.ConfigurationPacket) error {
	f := File{Packets: make([]Record, 0, len(packets))}
	for _, p := range packets {
		f.Packets = append(f.Packets, Record{
			Type:     p.HeaderType,
			Opcode:   p.Opcode,
			Register: p.Register,
			Words:    p.Words,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// Read decodes a packet file. Header types other than 1 and 2 are rejected.
func Read(r io.Reader) ([]xc7.ConfigurationPacket, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	packets := make([]xc7.ConfigurationPacket, 0, len(f.Packets))
	for i, rec := range f.Packets {
		if rec.Type != 1 && rec.Type != 2 {
			return nil, fmt.Errorf("packet %d: unsupported header type %d", i, rec.Type)
		}
		packets = append(packets, xc7.ConfigurationPacket{
			HeaderType: rec.Type,
			Opcode:     rec.Opcode,
			Register:   rec.Register,
			Words:      rec.Words,
		})
	}
	return packets, nil
}

func WriteFile(path string, packets []xc7.ConfigurationPacket) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, packets); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) ([]xc7.ConfigurationPacket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	packets, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return packets, nil
}
