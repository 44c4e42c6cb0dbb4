package services

import (
	"bytes"
	"fmt"
	"time"

	"crmbackend/internal/domain"
	"crmbackend/internal/repositories"
	"crmbackend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReportService renders the opportunity summary as a downloadable PDF for
// the dashboard export button.
type ReportService struct {
	OpportunityRepo repositories.OpportunityRepository
	RequestID       string
}

func (s ReportService) OpportunitiesPDF(locationID string) ([]byte, string, error) {
	summary, err := s.OpportunityRepo.Summary(locationID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "reports", "opportunities_pdf", "location_id="+locationID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Opportunity Report", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "OPPORTUNITY REPORT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Location : %s", locationID))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 8, "Stage", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Count", "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, "Value", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, stage := range []string{"open", "won", "lost", "abandoned"} {
		b := summary.Stages[stage]
		pdf.CellFormat(60, 8, stage, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", b.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 8, formatCents(b.Value), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", summary.TotalCount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, formatCents(summary.TotalValue), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Err: err}
	}

	filename := fmt.Sprintf("OPPORTUNITIES_%s_%s.pdf", locationID, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// formatCents renders a cents amount as a dollar string without pulling in
// a money library for one report column.
func formatCents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
