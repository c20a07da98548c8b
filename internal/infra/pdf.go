package infra

// pdf.go — Cost allocation report rendering using go-pdf/fpdf.
// One A4 page per production: lot header, per-output allocation table
// (product, lot, weight, share, amount) and a bold total row.
// The output file is saved to storagePath/report_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/dto"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateAllocationPDF renders the per-output cost allocation of a
// production. storagePath is created if needed. Returns the file name
// relative to storagePath.
func GenerateAllocationPDF(production *model.Production, alloc *dto.ProductionAllocationResponse, reportID string, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("report_%s.pdf", reportID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Cost Allocation Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Production lot: %s", production.LotLabel), "", 1, "L", false, 0, "")
	if production.Species != nil {
		pdf.CellFormat(contentW, 6, fmt.Sprintf("Species: %s", production.Species.Name), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Opened: %s", production.OpenedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	if production.ClosedAt != nil {
		pdf.CellFormat(contentW, 6, fmt.Sprintf("Closed: %s", production.ClosedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Generated %s", time.Now().Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Table header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.34 // product
	col2 := contentW * 0.20 // lot
	col3 := contentW * 0.16 // weight
	col4 := contentW * 0.12 // share
	col5 := contentW * 0.18 // amount

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Lot", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "Weight (kg)", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Share %", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 7, "Amount", "B", 1, "R", false, 0, "")

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, entry := range alloc.Entries {
		product := entry.Product
		if len(product) > 32 {
			product = product[:31] + "…"
		}
		lot := ""
		if entry.LotCode != nil {
			lot = *entry.LotCode
		}
		pdf.CellFormat(col1, 6, product, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, lot, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, entry.WeightKg.StringFixed(3), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, entry.SharePct.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, entry.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3+col4, 7, "TOTAL COST:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 7, alloc.TotalCost.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return fileName, nil
}
