package appraisal

import (
	"context"
	"math"
)

// Summarize is the reporting view over one cycle, recomputed from persisted
// state on every call.
func (s *Service) Summarize(ctx context.Context, cycleID string) (CycleSummary, error) {
	if _, err := s.GetCycle(ctx, cycleID); err != nil {
		return CycleSummary{}, err
	}
	counts, err := s.store.CycleStatusCounts(ctx, cycleID)
	if err != nil {
		return CycleSummary{}, err
	}
	scores, err := s.store.PublishedScores(ctx, cycleID)
	if err != nil {
		return CycleSummary{}, err
	}
	return buildCycleSummary(cycleID, counts, scores), nil
}

func buildCycleSummary(cycleID string, counts map[string]int, publishedScores []float64) CycleSummary {
	summary := CycleSummary{
		CycleID:      cycleID,
		NotStarted:   counts[AssignmentStatusNotStarted],
		InProgress:   counts[AssignmentStatusInProgress],
		Submitted:    counts[AssignmentStatusSubmitted],
		Published:    counts[AssignmentStatusPublished],
		Acknowledged: counts[AssignmentStatusAcknowledged],
	}
	summary.TotalAssignments = summary.NotStarted + summary.InProgress + summary.Submitted + summary.Published + summary.Acknowledged

	if summary.TotalAssignments > 0 {
		completed := summary.Submitted + summary.Published + summary.Acknowledged
		summary.CompletionRate = round2(float64(completed) / float64(summary.TotalAssignments))
	}

	// Average only over published records; drafts and submissions under HR
	// review do not move the number.
	if len(publishedScores) > 0 {
		var sum float64
		for _, score := range publishedScores {
			sum += score
		}
		summary.AverageScore = round2(sum / float64(len(publishedScores)))
	}
	return summary
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
