package appraisal

import (
	"context"
	"log/slog"
)

// TransitionHook runs after a state write has committed. Hook errors are
// logged and never roll back the transition.
type TransitionHook func(ctx context.Context, assignment Assignment, event string) error

func (s *Service) fireHooks(ctx context.Context, assignment Assignment, event string) {
	for _, hook := range s.hooks {
		if err := hook(ctx, assignment, event); err != nil {
			slog.Warn("post-transition hook failed",
				"assignmentId", assignment.ID, "event", event, "err", err)
		}
	}
}

const (
	NotifyAssignmentCreated = "appraisal_assigned"
	NotifySubmitted         = "appraisal_submitted"
	NotifyPublished         = "appraisal_published"
	NotifyReturned          = "appraisal_returned"
	NotifyAcknowledged      = "appraisal_acknowledged"
	NotifyDisputed          = "appraisal_disputed"
	NotifyDueSoon           = "appraisal_due_soon"
)

// notifyHook routes each transition to the party who has to act next.
func notifyHook(notifier Notifier) TransitionHook {
	return func(ctx context.Context, assignment Assignment, event string) error {
		switch event {
		case EventAssigned:
			return notifier.Notify(ctx, assignment.ManagerProfileID, NotifyAssignmentCreated,
				"New appraisal assignment", "An appraisal for your report is ready to start.")
		case EventSubmit:
			return notifier.Notify(ctx, assignment.EmployeeProfileID, NotifySubmitted,
				"Appraisal submitted", "Your manager submitted your appraisal for HR review.")
		case EventPublish:
			return notifier.Notify(ctx, assignment.EmployeeProfileID, NotifyPublished,
				"Appraisal published", "Your appraisal result is available. Please review and acknowledge it.")
		case EventReturnForRevision:
			return notifier.Notify(ctx, assignment.ManagerProfileID, NotifyReturned,
				"Appraisal returned", "HR returned an appraisal to you for revision.")
		case EventAcknowledge:
			return notifier.Notify(ctx, assignment.ManagerProfileID, NotifyAcknowledged,
				"Appraisal acknowledged", "Your report acknowledged their published appraisal.")
		case EventDisputed:
			return notifier.Notify(ctx, assignment.ManagerProfileID, NotifyDisputed,
				"Appraisal disputed", "Your report raised a dispute against their published appraisal.")
		}
		return nil
	}
}
