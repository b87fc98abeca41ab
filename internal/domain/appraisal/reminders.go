package appraisal

import (
	"context"
	"log/slog"
	"time"
)

// SendDueReminders notifies managers of open assignments whose due date
// falls within the horizon. Returns how many reminders were dispatched.
func (s *Service) SendDueReminders(ctx context.Context, horizon time.Duration) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}
	assignments, err := s.store.AssignmentsDueBefore(ctx, s.now().Add(horizon))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, assignment := range assignments {
		err := s.notifier.Notify(ctx, assignment.ManagerProfileID, NotifyDueSoon,
			"Appraisal due soon", "An appraisal assignment is approaching its due date.")
		if err != nil {
			slog.Warn("due reminder failed", "assignmentId", assignment.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}
