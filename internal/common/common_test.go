package common

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSha256OfWordsMatchesFile(t *testing.T) {
	words := []uint32{0xFFFFFFFF, 0xAA995566, 0x30008001}
	var buf bytes.Buffer
	for _, w := range words {
		_ = binary.Write(&buf, binary.BigEndian, w)
	}
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	fileSum, size, err := Sha256OfFile(path)
	if err != nil {
		t.Fatalf("Sha256OfFile: %v", err)
	}
	if size != 12 {
		t.Fatalf("size = %d, want 12", size)
	}
	if got := Sha256OfWords(words); got != fileSum {
		t.Fatalf("Sha256OfWords = %s, want %s", got, fileSum)
	}
}

func TestSha256OfWordsEmpty(t *testing.T) {
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sha256OfWords(nil); got != want {
		t.Fatalf("Sha256OfWords(nil) = %s, want %s", got, want)
	}
}

func TestSetupLoggingWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	closer, err := SetupLogging(LogOptions{Directory: dir, FileName: "test.log", MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("SetupLogging: %v", err)
	}
	defer SetOutput(os.Stderr)

	Logf("frames decoded: %d", 42)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[xc7ctl] ") || !strings.Contains(string(data), "frames decoded: 42") {
		t.Fatalf("log file = %q", data)
	}
}

func TestSetupLoggingWithoutDirectory(t *testing.T) {
	closer, err := SetupLogging(LogOptions{})
	if err != nil {
		t.Fatalf("SetupLogging: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
