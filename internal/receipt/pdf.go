// Package receipt renders order receipts as PDFs after a successful
// checkout. The file is written under the business's upload directory and
// linked from the order record.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Line struct {
	Name       string
	Qty        int64
	PriceCents int64
}

type Order struct {
	ID            string
	BusinessName  string
	CustomerEmail string
	Lines         []Line
	TotalCents    int64
	PaidAt        time.Time
}

// Generate writes a receipt PDF for a paid order and returns its path.
func Generate(order Order, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, order.BusinessName)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Receipt for order %s", order.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Paid %s", order.PaidAt.Format("January 2, 2006")))
	pdf.Ln(6)
	if order.CustomerEmail != "" {
		pdf.Cell(0, 6, order.CustomerEmail)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Line items table.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Price", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range order.Lines {
		pdf.CellFormat(110, 8, line.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", line.Qty), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, formatCents(line.PriceCents*line.Qty), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, formatCents(order.TotalCents), "T", 1, "R", false, 0, "")

	path := filepath.Join(outputDir, fmt.Sprintf("receipt-%s.pdf", order.ID))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write receipt PDF: %w", err)
	}
	return path, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100.0)
}
