package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"AFD-SVC/internal/binding"
	"AFD-SVC/internal/layout"
	"AFD-SVC/internal/schema"
)

const (
	defaultFontSize = 12.0
	headerY         = 30.0
	footerMarginY   = 30.0
	signatureLineW  = 180.0
	qrSizePt        = 72.0
	qrMarginPt      = 36.0
)

// Renderer rasterizes a resolved document to PDF. Positions arrive in page
// points, so the PDF is built in the same unit and no scaling is applied
// here; the preview scale transform (layout.ToRenderSpace) only serves the
// editing surface.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// Render emits the final PDF for a fully bound document. verifyURL, when
// non-empty, is embedded as a QR code in the bottom-right corner of the
// last page.
func (r *Renderer) Render(doc *binding.ResolvedDocument, verifyURL string) ([]byte, error) {
	pageW, pageH := layout.PageSizePt(doc.Settings)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for page := 1; page <= doc.PageCount; page++ {
		pdf.AddPage()

		if doc.Header != nil && doc.Header.Text != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetXY(0, headerY)
			pdf.CellFormat(pageW, 14, doc.Header.Text, "", 0, "CM", false, 0, "")
		}
		if doc.Footer != nil && doc.Footer.Text != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetXY(0, pageH-footerMarginY)
			pdf.CellFormat(pageW, 12, doc.Footer.Text, "", 0, "CM", false, 0, "")
		}

		if page == 1 && doc.Logo != nil && doc.Logo.Path != "" {
			r.renderLogo(pdf, doc.Logo)
		}

		content := doc.Pages[page]
		for _, tb := range content.TextBlocks {
			r.renderText(pdf, tb.Content, tb.Position, tb.Styles)
		}
		for _, p := range content.Placeholders {
			if p.Type == schema.PlaceholderTypeSignature || p.Position == nil {
				continue
			}
			if p.Type == schema.PlaceholderTypeCheckbox {
				r.renderCheckbox(pdf, doc.Values[p.Name] == "true", *p.Position)
				continue
			}
			r.renderText(pdf, doc.Values[p.Name], *p.Position, p.Styles)
		}
	}

	// Signature and verification QR always land on the final page.
	if doc.Signature != nil {
		r.renderSignature(pdf, doc.Signature)
	}
	if verifyURL != "" {
		if err := r.renderQRCode(pdf, verifyURL, pageW, pageH); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to output PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderText(pdf *gofpdf.Fpdf, text string, pos schema.Position, styles *schema.Styles) {
	if strings.TrimSpace(text) == "" {
		return
	}

	fontStyle := ""
	fontSize := defaultFontSize
	align := "L"
	colorR, colorG, colorB := 0, 0, 0

	if styles != nil {
		if styles.FontWeight == "bold" {
			fontStyle += "B"
		}
		if styles.FontStyle == "italic" {
			fontStyle += "I"
		}
		if styles.FontSize > 0 {
			fontSize = styles.FontSize
		}
		switch styles.TextAlign {
		case "center":
			align = "C"
		case "right":
			align = "R"
		}
		if styles.Color != "" {
			colorR, colorG, colorB = hexToRGB(styles.Color)
		}
	}

	pdf.SetFont("Helvetica", fontStyle, fontSize)
	pdf.SetTextColor(colorR, colorG, colorB)

	lineHeight := fontSize * 1.2
	pdf.SetXY(pos.X, pos.Y)

	switch align {
	case "C":
		pdf.CellFormat(0, lineHeight, text, "", 0, "CM", false, 0, "")
	case "R":
		pdf.CellFormat(0, lineHeight, text, "", 0, "RM", false, 0, "")
	default:
		pdf.CellFormat(0, lineHeight, text, "", 0, "LM", false, 0, "")
	}
}

func (r *Renderer) renderCheckbox(pdf *gofpdf.Fpdf, checked bool, pos schema.Position) {
	const box = 10.0
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.75)
	pdf.Rect(pos.X, pos.Y, box, box, "D")
	if checked {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(pos.X, pos.Y)
		pdf.CellFormat(box, box, "X", "", 0, "CM", false, 0, "")
	}
}

func (r *Renderer) renderSignature(pdf *gofpdf.Fpdf, sig *binding.SignatureDirective) {
	x, y := sig.Position.X, sig.Position.Y

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.75)
	pdf.Line(x, y, x+signatureLineW, y)

	label := sig.Label
	if label == "" {
		label = "Signature"
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y+4)
	pdf.CellFormat(signatureLineW, 12, label, "", 0, "LM", false, 0, "")
}

func (r *Renderer) renderLogo(pdf *gofpdf.Fpdf, logo *schema.LogoSettings) {
	w, h := logo.Size.Width, logo.Size.Height
	if w <= 0 {
		w = 120
	}
	if h <= 0 {
		h = 0 // keep aspect ratio
	}
	pdf.ImageOptions(logo.Path, logo.Position.X, logo.Position.Y, w, h, false,
		gofpdf.ImageOptions{ReadDpi: true}, 0, "")
}

func (r *Renderer) renderQRCode(pdf *gofpdf.Fpdf, verifyURL string, pageW, pageH float64) error {
	png, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate verification QR code: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verification-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("verification-qr",
		pageW-qrSizePt-qrMarginPt, pageH-qrSizePt-qrMarginPt,
		qrSizePt, qrSizePt, false, opts, 0, "")
	return nil
}

func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	r, _ := strconv.ParseInt(hex[0:2], 16, 64)
	g, _ := strconv.ParseInt(hex[2:4], 16, 64)
	b, _ := strconv.ParseInt(hex[4:6], 16, 64)
	return int(r), int(g), int(b)
}
