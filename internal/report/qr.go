package report

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// SummaryQR encodes the part idcode and payload digest of s as a QR code PNG
// so a printed report can be matched against a payload file.
func SummaryQR(s Summary, size int) ([]byte, error) {
	digest := sanitizeHash(s.PayloadSHA256)
	if digest == "" {
		return nil, fmt.Errorf("payload digest is empty")
	}
	if size <= 0 {
		size = 128
	}
	content := fmt.Sprintf("XC7 %s SHA256 %s", strings.ToUpper(s.IDCode), digest)
	return qrcode.Encode(content, qrcode.Medium, size)
}

// sanitizeHash keeps only hex digits, upper-cased.
func sanitizeHash(hash string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(hash)) {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
