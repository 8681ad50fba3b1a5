package infra

// pdf.go: delivery checklist for a Base, rendered with go-pdf/fpdf.
// A6 portrait (105mm × 148mm) with:
//   - Title and base name
//   - One row per attachment with empty CHECK / FECHA / FIRMA cells
//   - "Recibido por" signature footer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Checklist is the content of one checklist document.
type Checklist struct {
	Titulo string
	Base   string
	Items  []string
	Fecha  time.Time
}

// GenerarChecklistPDF renders c and returns the PDF bytes.
func GenerarChecklistPDF(c Checklist) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 105, Ht: 148},
	})
	pdf.SetMargins(6, 6, 6)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 12

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(c.Titulo), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Base: "+c.Base), "", 1, "L", false, 0, "")
	if !c.Fecha.IsZero() {
		pdf.CellFormat(contentW, 4, c.Fecha.Format("02/01/2006"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Table ────────────────────────────────────────────────────────────────
	colItem := contentW * 0.46
	colCheck := contentW * 0.14
	colFecha := contentW * 0.18
	colFirma := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(colItem, 6, "ITEM", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colCheck, 6, "CHECK", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colFecha, 6, "FECHA", "1", 0, "C", false, 0, "")
	pdf.CellFormat(colFirma, 6, "FIRMA", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for i, item := range c.Items {
		nombre := fmt.Sprintf("%d. %s", i+1, item)
		// Truncate long names
		if len([]rune(nombre)) > 34 {
			nombre = string([]rune(nombre)[:33]) + "..."
		}
		pdf.CellFormat(colItem, 7, tr(nombre), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colCheck, 7, "", "1", 0, "C", false, 0, "")
		pdf.CellFormat(colFecha, 7, "", "1", 0, "C", false, 0, "")
		pdf.CellFormat(colFirma, 7, "", "1", 1, "C", false, 0, "")
	}
	if len(c.Items) == 0 {
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 7, "Sin archivos adjuntos", "1", 1, "C", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW*0.6, 5, "Recibido por: ____________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, "Fecha: ___/___/____", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render checklist: %w", err)
	}
	return buf.Bytes(), nil
}
