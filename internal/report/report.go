package report

import (
	"encoding/json"
	"fmt"
	"os"

	"example.com/xc7frames/internal/common"
	"example.com/xc7frames/internal/xc7"
)

// GroupSummary counts frames in one (block type, half, row) group.
type GroupSummary struct {
	BlockType     string `json:"blockType"`
	TopHalf       bool   `json:"topHalf"`
	Row           uint32 `json:"row"`
	Frames        int    `json:"frames"`
	NonZeroFrames int    `json:"nonZeroFrames"`
}

type Summary struct {
	PartName       string         `json:"partName,omitempty"`
	IDCode         string         `json:"idcode"`
	LegalAddresses int            `json:"legalAddresses"`
	Frames         int            `json:"frames"`
	PayloadWords   int            `json:"payloadWords"`
	PayloadSHA256  string         `json:"payloadSha256"`
	Groups         []GroupSummary `json:"groups"`
}

// Summarize describes frames as loaded through payload, the FDRI words
// produced for them.
func Summarize(frames *xc7.Frames, part *xc7.Part, payload []uint32) Summary {
	s := Summary{
		PartName:       part.Name(),
		IDCode:         fmt.Sprintf("0x%08X", part.IDCode()),
		LegalAddresses: part.Len(),
		Frames:         frames.Len(),
		PayloadWords:   len(payload),
		PayloadSHA256:  common.Sha256OfWords(payload),
		Groups:         []GroupSummary{},
	}
	var prev xc7.FrameAddress
	for i, addr := range frames.Addresses() {
		if i == 0 || !xc7.SameGroup(prev, addr) {
			s.Groups = append(s.Groups, GroupSummary{
				BlockType: addr.BlockType().String(),
				TopHalf:   addr.IsTopHalf(),
				Row:       addr.Row(),
			})
		}
		g := &s.Groups[len(s.Groups)-1]
		g.Frames++
		if !frames.IsZero(addr) {
			g.NonZeroFrames++
		}
		prev = addr
	}
	return s
}

func SaveSummaryJSON(s Summary, out string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadSummaryJSON(path string) (Summary, error) {
	var s Summary
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(b, &s)
	return s, err
}

// Compare lists how cur differs from prev, a summary saved by an earlier
// run. Groups are matched by block type, half and row. An empty result means
// both summaries describe the same payload.
func Compare(prev, cur Summary) []string {
	var diffs []string
	if prev.IDCode != cur.IDCode {
		diffs = append(diffs, fmt.Sprintf("idcode %s -> %s", prev.IDCode, cur.IDCode))
	}
	if prev.Frames != cur.Frames {
		diffs = append(diffs, fmt.Sprintf("frames %d -> %d", prev.Frames, cur.Frames))
	}
	type key struct {
		blockType string
		top       bool
		row       uint32
	}
	old := make(map[key]GroupSummary, len(prev.Groups))
	for _, g := range prev.Groups {
		old[key{g.BlockType, g.TopHalf, g.Row}] = g
	}
	for _, g := range cur.Groups {
		k := key{g.BlockType, g.TopHalf, g.Row}
		p, ok := old[k]
		delete(old, k)
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("group %s added (%d frames)", groupName(g), g.Frames))
		case p.Frames != g.Frames || p.NonZeroFrames != g.NonZeroFrames:
			diffs = append(diffs, fmt.Sprintf("group %s frames %d/%d -> %d/%d non-zero",
				groupName(g), p.NonZeroFrames, p.Frames, g.NonZeroFrames, g.Frames))
		}
	}
	for _, g := range prev.Groups {
		if _, ok := old[key{g.BlockType, g.TopHalf, g.Row}]; ok {
			diffs = append(diffs, fmt.Sprintf("group %s removed", groupName(g)))
		}
	}
	if len(diffs) == 0 && prev.PayloadSHA256 != cur.PayloadSHA256 {
		diffs = append(diffs, "frame data changed")
	}
	return diffs
}

func groupName(g GroupSummary) string {
	half := "bottom"
	if g.TopHalf {
		half = "top"
	}
	return fmt.Sprintf("%s/%s/%d", g.BlockType, half, g.Row)
}
