package appraisal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DisputeInput struct {
	Reason            string `json:"reason"`
	Details           string `json:"details"`
	DisputedRatingKey string `json:"disputedRatingKey"`
}

type DisputeWindow struct {
	Allowed  bool      `json:"allowed"`
	Deadline time.Time `json:"deadline"`
}

// CanDispute is the pure window policy: a published record is disputable
// until hrPublishedAt plus the window.
func CanDispute(record Record, window time.Duration, now time.Time) DisputeWindow {
	if record.HRPublishedAt == nil {
		return DisputeWindow{}
	}
	deadline := record.HRPublishedAt.Add(window)
	return DisputeWindow{Allowed: !now.After(deadline), Deadline: deadline}
}

// CheckDisputeWindow reports the window for an assignment's current record.
func (s *Service) CheckDisputeWindow(ctx context.Context, assignmentID string) (DisputeWindow, error) {
	record, found, err := s.store.RecordByAssignment(ctx, assignmentID)
	if err != nil {
		return DisputeWindow{}, err
	}
	if !found {
		return DisputeWindow{}, &NotFoundError{Entity: "record", ID: "for assignment " + assignmentID}
	}
	return CanDispute(record, s.disputeWindow, s.now()), nil
}

// RaiseDispute contests a published record. One open dispute per record at
// a time; the window check runs first so an expired window is reported with
// its deadline rather than as a conflict.
func (s *Service) RaiseDispute(ctx context.Context, assignmentID string, input DisputeInput, actor Actor) (Dispute, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return Dispute{}, &ValidationError{Violations: []string{"reason is required"}}
	}

	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return Dispute{}, err
	}
	if actor.Role != RoleEmployee || actor.EmployeeID != assignment.EmployeeProfileID {
		return Dispute{}, &ValidationError{Violations: []string{"only the appraised employee may raise a dispute"}}
	}
	if assignment.Status != AssignmentStatusPublished && assignment.Status != AssignmentStatusAcknowledged {
		return Dispute{}, &StateError{Entity: "assignment", Current: assignment.Status, Attempted: "dispute"}
	}

	record, found, err := s.store.GetRecord(ctx, assignment.LatestAppraisalID)
	if err != nil {
		return Dispute{}, err
	}
	if !found {
		return Dispute{}, &NotFoundError{Entity: "record", ID: assignment.LatestAppraisalID}
	}

	window := CanDispute(record, s.disputeWindow, s.now())
	if !window.Allowed {
		return Dispute{}, &DeadlineExpiredError{Deadline: window.Deadline}
	}

	if input.DisputedRatingKey != "" && !recordHasKey(record, input.DisputedRatingKey) {
		return Dispute{}, &ValidationError{Violations: []string{"disputedRatingKey is not part of the record"}}
	}

	open, err := s.store.OpenDisputeExists(ctx, record.ID)
	if err != nil {
		return Dispute{}, err
	}
	if open {
		return Dispute{}, &ConflictError{Message: "an open dispute already exists for this record"}
	}

	dispute := Dispute{
		ID:                 uuid.NewString(),
		AppraisalID:        record.ID,
		AssignmentID:       assignment.ID,
		CycleID:            assignment.CycleID,
		RaisedByEmployeeID: actor.EmployeeID,
		Reason:             strings.TrimSpace(input.Reason),
		Details:            input.Details,
		DisputedRatingKey:  input.DisputedRatingKey,
		Status:             DisputeStatusOpen,
		CreatedAt:          s.now().UTC(),
	}
	if err := s.store.CreateDispute(ctx, dispute); err != nil {
		return Dispute{}, err
	}
	s.fireHooks(ctx, assignment, EventDisputed)
	return dispute, nil
}

func (s *Service) ListDisputes(ctx context.Context, cycleID string) ([]Dispute, error) {
	return s.store.ListDisputes(ctx, cycleID)
}

func recordHasKey(record Record, key string) bool {
	for _, rating := range record.Ratings {
		if rating.Key == key {
			return true
		}
	}
	return false
}
