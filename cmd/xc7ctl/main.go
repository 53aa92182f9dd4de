package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"example.com/xc7frames/internal/common"
	"example.com/xc7frames/internal/config"
	"example.com/xc7frames/internal/frm"
	"example.com/xc7frames/internal/partdb"
	"example.com/xc7frames/internal/pktfile"
	"example.com/xc7frames/internal/report"
	"example.com/xc7frames/internal/xc7"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func run(cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "encode":
		return encodeCmd(args, stdout)
	case "decode":
		return decodeCmd(args, stdout)
	case "report":
		return reportCmd(args, stdout)
	case "part":
		return partCmd(args, stdout)
	default:
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `xc7ctl %s (built %s) <command> [options]

Commands:
  encode  --part <part.yaml> --frames <in.frm> --out <payload.bin> [--packets <packets.yaml>] [--fill-missing] [--verify=false]
  decode  --part <part.yaml> --payload <payload.bin> --far <address> --out <out.frm>
  decode  --part <part.yaml> --packets <packets.yaml> --out <out.frm>
  report  --part <part.yaml> --frames <in.frm> [--json <summary.json>] [--pdf <summary.pdf>] [--compare <old.json>] [--fill-missing]
  part    --part <part.yaml>

All commands accept --config <xc7ctl.yaml>.
`, version, buildDate)
}

// session holds what every command loads before doing its work.
type session struct {
	cfg    config.Config
	closer io.Closer
}

func (s *session) Close() {
	common.SetOutput(os.Stderr)
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func openSession(configPath string) (*session, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	closer, err := common.SetupLogging(common.LogOptions{
		Directory:  cfg.Logs.Directory,
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return &session{cfg: cfg, closer: closer}, nil
}

func (s *session) loadPart(flagValue string) (*xc7.Part, error) {
	path := flagValue
	if path == "" {
		path = s.cfg.PartFile
	}
	if path == "" {
		return nil, fmt.Errorf("required: --part")
	}
	part, err := partdb.Load(path)
	if err != nil {
		return nil, err
	}
	common.Logf("loaded part %s from %s", part, path)
	return part, nil
}

// loadFrames reads a frame dump and drops addresses the part does not have.
func loadFrames(path string, part *xc7.Part, fillMissing bool) (*xc7.Frames, error) {
	frames, err := frm.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, addr := range frames.Addresses() {
		if !part.Contains(addr) {
			common.Logf("dropping frame %s: not a legal address on this part", addr)
			frames.Delete(addr)
		}
	}
	if fillMissing {
		if n := frames.AddMissing(part); n > 0 {
			common.Logf("zero-filled %d missing frames", n)
		}
	}
	return frames, nil
}

func encodeCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	configPath := fs.String("config", "", "xc7ctl.yaml")
	partPath := fs.String("part", "", "part description (.yaml or .toml)")
	framesPath := fs.String("frames", "", "input frame dump")
	out := fs.String("out", "payload.bin", "FDRI payload output")
	packetsOut := fs.String("packets", "", "also write the IDCODE/FAR/CMD/FDRI packet sequence here")
	fillMissing := fs.Bool("fill-missing", false, "zero-fill legal addresses absent from the frame dump")
	verify := fs.Bool("verify", true, "decode the packets again and compare")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *framesPath == "" {
		return fmt.Errorf("required: --frames")
	}

	s, err := openSession(*configPath)
	if err != nil {
		return err
	}
	defer s.Close()
	part, err := s.loadPart(*partPath)
	if err != nil {
		return err
	}
	frames, err := loadFrames(*framesPath, part, *fillMissing || s.cfg.FillMissing)
	if err != nil {
		return err
	}
	if frames.Len() == 0 {
		return fmt.Errorf("no frames at legal addresses in %s", *framesPath)
	}

	packets := xc7.BuildPackets(frames, part)
	far := frames.Addresses()[0]
	payload := xc7.BuildPacketPayload(frames, part)
	if *verify {
		cfg, err := xc7.NewConfiguration(part, packets)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if !cfg.Frames().Equal(frames) {
			return fmt.Errorf("verify: decoded payload differs from input (%d frames decoded, %d expected); frames may not cover a contiguous address run, try --fill-missing",
				cfg.Frames().Len(), frames.Len())
		}
	}
	if err := os.WriteFile(*out, xc7.WordsToBytes(payload), 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if *packetsOut != "" {
		if err := pktfile.WriteFile(*packetsOut, packets); err != nil {
			return fmt.Errorf("write packets: %w", err)
		}
	}
	sum, size, err := common.Sha256OfFile(*out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "frames=%d words=%d bytes=%d far=0x%08X sha256=%s\n", frames.Len(), len(payload), size, far.Raw(), sum)
	return nil
}

func decodeCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	configPath := fs.String("config", "", "xc7ctl.yaml")
	partPath := fs.String("part", "", "part description (.yaml or .toml)")
	payloadPath := fs.String("payload", "", "FDRI payload (big-endian words)")
	farFlag := fs.String("far", "", "frame address the payload starts at, as printed by encode")
	packetsPath := fs.String("packets", "", "packet sequence written by encode --packets")
	out := fs.String("out", "frames.frm", "output frame dump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	switch {
	case *payloadPath != "" && *packetsPath != "":
		return fmt.Errorf("--payload and --packets are mutually exclusive")
	case *payloadPath == "" && *packetsPath == "":
		return fmt.Errorf("required: --payload or --packets")
	case *payloadPath != "" && strings.TrimSpace(*farFlag) == "":
		return fmt.Errorf("required: --far with --payload")
	}

	s, err := openSession(*configPath)
	if err != nil {
		return err
	}
	defer s.Close()
	part, err := s.loadPart(*partPath)
	if err != nil {
		return err
	}

	var packets []xc7.ConfigurationPacket
	if *packetsPath != "" {
		packets, err = pktfile.ReadFile(*packetsPath)
		if err != nil {
			return err
		}
	} else {
		packets, err = payloadPackets(*payloadPath, *farFlag, part)
		if err != nil {
			return err
		}
	}
	cfg, err := xc7.NewConfiguration(part, packets)
	if err != nil {
		return err
	}
	if err := frm.WriteFile(*out, cfg.Frames()); err != nil {
		return fmt.Errorf("write frames: %w", err)
	}
	fmt.Fprintf(stdout, "frames=%d packets=%d commands=%d\n", cfg.Frames().Len(), len(packets), len(cfg.Commands()))
	return nil
}

// payloadPackets wraps a bare FDRI payload in the writes encode would have
// put around it.
func payloadPackets(path, farValue string, part *xc7.Part) ([]xc7.ConfigurationPacket, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(farValue), 0, 32)
	if err != nil {
		return nil, fmt.Errorf("bad --far %q: %w", farValue, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words, err := xc7.BytesToWords(data)
	if err != nil {
		return nil, err
	}
	return []xc7.ConfigurationPacket{
		{HeaderType: 1, Opcode: xc7.OpcodeWrite, Register: xc7.RegIDCODE, Words: []uint32{part.IDCode()}},
		{HeaderType: 1, Opcode: xc7.OpcodeWrite, Register: xc7.RegFAR, Words: []uint32{uint32(v)}},
		{HeaderType: 1, Opcode: xc7.OpcodeWrite, Register: xc7.RegCMD, Words: []uint32{uint32(xc7.CmdWCFG)}},
		{HeaderType: 2, Opcode: xc7.OpcodeWrite, Register: xc7.RegFDRI, Words: words},
	}, nil
}

func reportCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	configPath := fs.String("config", "", "xc7ctl.yaml")
	partPath := fs.String("part", "", "part description (.yaml or .toml)")
	framesPath := fs.String("frames", "", "input frame dump")
	jsonOut := fs.String("json", "", "summary JSON output")
	pdfOut := fs.String("pdf", "", "summary PDF output")
	compare := fs.String("compare", "", "summary JSON from an earlier run to compare against")
	fillMissing := fs.Bool("fill-missing", false, "zero-fill legal addresses absent from the frame dump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *framesPath == "" {
		return fmt.Errorf("required: --frames")
	}

	s, err := openSession(*configPath)
	if err != nil {
		return err
	}
	defer s.Close()
	part, err := s.loadPart(*partPath)
	if err != nil {
		return err
	}
	frames, err := loadFrames(*framesPath, part, *fillMissing || s.cfg.FillMissing)
	if err != nil {
		return err
	}
	// Read the earlier summary first so --json may overwrite the same file.
	var prev *report.Summary
	if *compare != "" {
		p, err := report.LoadSummaryJSON(*compare)
		if err != nil {
			return fmt.Errorf("load %s: %w", *compare, err)
		}
		prev = &p
	}
	sum := report.Summarize(frames, part, xc7.BuildPacketPayload(frames, part))
	if *jsonOut != "" {
		if err := report.SaveSummaryJSON(sum, *jsonOut); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if *pdfOut != "" {
		if err := report.SaveSummaryPDF(sum, *pdfOut, s.cfg.Report.QRSize); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
	}
	fmt.Fprintf(stdout, "frames=%d groups=%d words=%d sha256=%s\n", sum.Frames, len(sum.Groups), sum.PayloadWords, sum.PayloadSHA256)
	if prev != nil {
		diffs := report.Compare(*prev, sum)
		if len(diffs) == 0 {
			fmt.Fprintln(stdout, "compare: identical")
		}
		for _, d := range diffs {
			fmt.Fprintf(stdout, "compare: %s\n", d)
		}
	}
	return nil
}

func partCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("part", flag.ContinueOnError)
	configPath := fs.String("config", "", "xc7ctl.yaml")
	partPath := fs.String("part", "", "part description (.yaml or .toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession(*configPath)
	if err != nil {
		return err
	}
	defer s.Close()
	part, err := s.loadPart(*partPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "name=%s idcode=0x%08X addresses=%d\n", part.Name(), part.IDCode(), part.Len())
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BLOCK TYPE\tHALF\tROW\tFRAMES")
	addrs := part.Addresses()
	start := 0
	for i := 1; i <= len(addrs); i++ {
		if i < len(addrs) && xc7.SameGroup(addrs[start], addrs[i]) {
			continue
		}
		a := addrs[start]
		half := "bottom"
		if a.IsTopHalf() {
			half = "top"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", a.BlockType(), half, a.Row(), i-start)
		start = i
	}
	return tw.Flush()
}
