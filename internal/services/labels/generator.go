package labels

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/rulos-nico/17025/internal/models"
)

// Config holds the layout of a label sheet.
type Config struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
}

// DefaultConfig matches the adhesive sheets used in the lab (3x8 on A4).
func DefaultConfig() Config {
	return Config{
		Cols:       3,
		Rows:       8,
		MarginTop:  10,
		MarginLeft: 7,
		GapX:       2.5,
		GapY:       0,
	}
}

func (c Config) valid() error {
	if c.Cols < 1 || c.Rows < 1 {
		return fmt.Errorf("layout must have at least one column and row, got %dx%d", c.Cols, c.Rows)
	}
	return nil
}

// GenerateMuestraLabels creates a PDF label sheet with one QR code per
// sample. The QR encodes the sample code so a phone scan in the field
// resolves the record without typing.
func GenerateMuestraLabels(cfg Config, muestras []models.Muestra) ([]byte, error) {
	if err := cfg.valid(); err != nil {
		return nil, err
	}
	if len(muestras) == 0 {
		return nil, fmt.Errorf("no samples to print")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	// A4
	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY

	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i, m := range muestras {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		qrPng, err := qrcode.Encode(m.Codigo, qrcode.Low, 256)
		if err != nil {
			return nil, fmt.Errorf("qr for %s: %w", m.Codigo, err)
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

		// QR centered, taking up 70% of the label height
		qrSize := labelH * 0.7
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}
		qrX := x + (labelW-qrSize)/2
		qrY := y + (labelH-qrSize)/2 - 2

		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		// Sample code below the QR
		pdf.SetXY(x, y+labelH-6)
		pdf.SetFontSize(8)
		pdf.CellFormat(labelW, 5, m.Codigo, "", 0, "C", false, 0, "")

		// Sample type and depth range top right
		pdf.SetXY(x, y+1)
		pdf.SetFontSize(6)
		depth := fmt.Sprintf("%s %.2f-%.2fm", m.TipoMuestra, m.ProfundidadInicio, m.ProfundidadFin)
		pdf.CellFormat(labelW, 3, depth, "", 0, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
