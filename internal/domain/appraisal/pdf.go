package appraisal

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WriteSummaryPDF renders the cycle's analytics summary as a one-page PDF.
func (s *Service) WriteSummaryPDF(ctx context.Context, cycleID string, w io.Writer) error {
	cycle, err := s.GetCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	summary, err := s.Summarize(ctx, cycleID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Appraisal Cycle Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s", cycle.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", cycle.StartDate.Format("2006-01-02"), cycle.EndDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", cycle.Status))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Assignments: %d", summary.TotalAssignments))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Not started: %d  In progress: %d  Submitted: %d", summary.NotStarted, summary.InProgress, summary.Submitted))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Published: %d  Acknowledged: %d", summary.Published, summary.Acknowledged))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Completion rate: %.0f%%", summary.CompletionRate*100))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Average published score: %.2f", summary.AverageScore))

	return pdf.Output(w)
}
