package allot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"regexp"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

var errNoLRN = errors.New("sample has no LRN")

// renderSampleLabelsPDF lays out one 100x60mm label per sample with the LRN
// as a code128 barcode.
func renderSampleLabelsPDF(labels []LabelData) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels to render")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 100, Ht: 60},
	})
	pdf.SetTitle("Sample Labels", false)
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		lrn := strings.TrimSpace(label.LRN)
		if lrn == "" {
			return nil, errNoLRN
		}
		barcodePNG, err := renderCode128PNG(lrn, 900, 200)
		if err != nil {
			return nil, fmt.Errorf("encode barcode %s: %w", lrn, err)
		}

		pdf.AddPage()
		pageW, _ := pdf.GetPageSize()
		contentW := pageW - 8

		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(4, 4)
		pdf.CellFormat(contentW, 6, fitText(pdf, orDash(label.Customer), contentW), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW, 4.5, fitText(pdf, "Product: "+orDash(label.Product), contentW), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 4.5, "BRN: "+orDash(label.BRN), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 4.5, "Received: "+orDash(label.ReceivedDate), "", 1, "R", false, 0, "")
		if label.GradeSize != "" {
			pdf.CellFormat(contentW, 4.5, fitText(pdf, "Grade / Size: "+label.GradeSize, contentW), "", 1, "L", false, 0, "")
		}

		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := fmt.Sprintf("lrn-barcode-%d", i)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		imgW, imgH := contentW-8, 18.0
		pdf.ImageOptions(imageName, (pageW-imgW)/2, 30, imgW, imgH, false, opt, 0, "")

		pdf.SetXY(4, 49)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(contentW, 7, lrn, "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}

// fitText truncates with an ellipsis until text fits maxWidth at the current
// font.
func fitText(pdf *gofpdf.Fpdf, text string, maxWidth float64) string {
	if pdf.GetStringWidth(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 && pdf.GetStringWidth(string(runes)+"...") > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func labelFileName(lrn string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(lrn), "-"), "-")
	if name == "" {
		return "label"
	}
	return name
}
