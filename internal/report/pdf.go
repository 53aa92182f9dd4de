package report

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SaveSummaryPDF renders s into a PDF document with a QR code of the payload
// digest on the first page.
func SaveSummaryPDF(s Summary, out string, qrSize int) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Configuration Summary", false)
	pdf.SetAuthor("xc7ctl", false)
	pdf.SetCreator("xc7ctl", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "Configuration Summary")
	if err := addDigestQR(pdf, s, qrSize); err != nil {
		return err
	}
	addSummarySection(pdf, s)
	addGroupsSection(pdf, s.Groups)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addDigestQR(pdf *gofpdf.Fpdf, s Summary, size int) error {
	png, err := SummaryQR(s, size)
	if err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("digest-qr", opts, bytes.NewReader(png))
	pageW, _ := pdf.GetPageSize()
	_, _, right, _ := pdf.GetMargins()
	const side = 32.0
	pdf.ImageOptions("digest-qr", pageW-right-side, 18, side, side, false, opts, 0, "")
	return nil
}

func addSummarySection(pdf *gofpdf.Fpdf, s Summary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Part", value: emptyFallback(s.PartName, "-")},
		{label: "IDCODE", value: s.IDCode},
		{label: "Legal Addresses", value: strconv.Itoa(s.LegalAddresses)},
		{label: "Frames", value: strconv.Itoa(s.Frames)},
		{label: "Payload Words", value: strconv.Itoa(s.PayloadWords)},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(50, 6, "SHA-256", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, s.PayloadSHA256, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func addGroupsSection(pdf *gofpdf.Fpdf, groups []GroupSummary) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Row Groups")
	pdf.Ln(9)

	if len(groups) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No frames recorded.", "", "L", false)
		return
	}

	headers := []string{"Block Type", "Half", "Row", "Frames", "Non-zero"}
	widths := []float64{50, 30, 25, 35, 35}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, g := range groups {
		values := []string{
			g.BlockType,
			halfLabel(g.TopHalf),
			strconv.FormatUint(uint64(g.Row), 10),
			strconv.Itoa(g.Frames),
			strconv.Itoa(g.NonZeroFrames),
		}
		for i, v := range values {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func halfLabel(top bool) string {
	if top {
		return "top"
	}
	return "bottom"
}

func emptyFallback(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
