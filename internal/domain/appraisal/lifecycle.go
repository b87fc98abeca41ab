package appraisal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// transition is one legal row of the assignment state machine.
type transition struct {
	from string
	to   string
	role string
}

// transitions is the whole machine. Any (event, state) pair not present
// fails with a StateError; a present pair with the wrong actor role fails
// before any write.
var transitions = map[string]transition{
	EventStart:             {from: AssignmentStatusNotStarted, to: AssignmentStatusInProgress, role: RoleManager},
	EventSubmit:            {from: AssignmentStatusInProgress, to: AssignmentStatusSubmitted, role: RoleManager},
	EventPublish:           {from: AssignmentStatusSubmitted, to: AssignmentStatusPublished, role: RoleHR},
	EventReturnForRevision: {from: AssignmentStatusSubmitted, to: AssignmentStatusInProgress, role: RoleHR},
	EventAcknowledge:       {from: AssignmentStatusPublished, to: AssignmentStatusAcknowledged, role: RoleEmployee},
}

// checkTransition gates an event by transition table and actor, returning
// the matched row. It does not touch the store.
func checkTransition(assignment Assignment, event string, actor Actor) (transition, error) {
	tr, ok := transitions[event]
	if !ok {
		return transition{}, &StateError{Entity: "assignment", Current: assignment.Status, Attempted: event}
	}
	if assignment.Status != tr.from {
		return transition{}, &StateError{Entity: "assignment", Current: assignment.Status, Attempted: event}
	}
	if actor.Role != tr.role {
		return transition{}, &ValidationError{Violations: []string{
			fmt.Sprintf("event %q requires role %q, caller has %q", event, tr.role, actor.Role),
		}}
	}
	switch actor.Role {
	case RoleManager:
		if actor.EmployeeID != assignment.ManagerProfileID {
			return transition{}, &ValidationError{Violations: []string{"caller is not the assignment's manager"}}
		}
	case RoleEmployee:
		if actor.EmployeeID != assignment.EmployeeProfileID {
			return transition{}, &ValidationError{Violations: []string{"caller is not the assignment's employee"}}
		}
	}
	return tr, nil
}

func (s *Service) getAssignment(ctx context.Context, assignmentID string) (Assignment, error) {
	assignment, found, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	if !found {
		return Assignment{}, &NotFoundError{Entity: "assignment", ID: assignmentID}
	}
	return assignment, nil
}

func (s *Service) GetAssignment(ctx context.Context, assignmentID string) (Assignment, error) {
	return s.getAssignment(ctx, assignmentID)
}

func (s *Service) ListAssignments(ctx context.Context, cycleID string, actor Actor) ([]Assignment, error) {
	switch actor.Role {
	case RoleEmployee:
		return s.store.ListAssignments(ctx, cycleID, actor.EmployeeID, "")
	case RoleManager:
		return s.store.ListAssignments(ctx, cycleID, "", actor.EmployeeID)
	default:
		return s.store.ListAssignments(ctx, cycleID, "", "")
	}
}

// requireActiveCycle guards start and submit: a closed cycle accepts no new
// work even for assignments already in flight.
func (s *Service) requireActiveCycle(ctx context.Context, cycleID, event string) error {
	cycle, found, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Entity: "cycle", ID: cycleID}
	}
	if cycle.Status != CycleStatusActive {
		return &StateError{Entity: "cycle", Current: cycle.Status, Attempted: event}
	}
	return nil
}

// StartAssignment moves not_started→in_progress for the owning manager.
func (s *Service) StartAssignment(ctx context.Context, assignmentID string, actor Actor) (Assignment, error) {
	return s.applyPlainTransition(ctx, assignmentID, EventStart, actor, true)
}

// ReturnForRevision is HR's escape hatch: submitted→in_progress. The
// superseded record stays for history; resubmission rebinds the pointer.
func (s *Service) ReturnForRevision(ctx context.Context, assignmentID string, actor Actor) (Assignment, error) {
	return s.applyPlainTransition(ctx, assignmentID, EventReturnForRevision, actor, false)
}

// AcknowledgeAssignment is the employee's terminal transition.
func (s *Service) AcknowledgeAssignment(ctx context.Context, assignmentID string, actor Actor) (Assignment, error) {
	return s.applyPlainTransition(ctx, assignmentID, EventAcknowledge, actor, false)
}

func (s *Service) applyPlainTransition(ctx context.Context, assignmentID, event string, actor Actor, needActiveCycle bool) (Assignment, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	tr, err := checkTransition(assignment, event, actor)
	if err != nil {
		return Assignment{}, err
	}
	if needActiveCycle {
		if err := s.requireActiveCycle(ctx, assignment.CycleID, event); err != nil {
			return Assignment{}, err
		}
	}

	applied, err := s.store.TransitionAssignment(ctx, assignmentID, tr.from, tr.to)
	if err != nil {
		return Assignment{}, err
	}
	if !applied {
		return Assignment{}, s.loserError(ctx, assignmentID, event)
	}

	assignment.Status = tr.to
	s.fireHooks(ctx, assignment, event)
	return assignment, nil
}

// SubmitAssignment scores the rating set and atomically creates the record
// while flipping in_progress→submitted. Exactly one of two racing submits
// succeeds; the loser gets a ConflictError and no second record exists.
func (s *Service) SubmitAssignment(ctx context.Context, assignmentID string, ratings []Rating, managerSummary string, actor Actor) (Record, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return Record{}, err
	}
	tr, err := checkTransition(assignment, EventSubmit, actor)
	if err != nil {
		return Record{}, err
	}
	if err := s.requireActiveCycle(ctx, assignment.CycleID, EventSubmit); err != nil {
		return Record{}, err
	}

	tmpl, found, err := s.store.GetTemplate(ctx, assignment.TemplateID)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, &NotFoundError{Entity: "template", ID: assignment.TemplateID}
	}

	score, err := ComputeScore(tmpl, ratings)
	if err != nil {
		return Record{}, err
	}

	now := s.now().UTC()
	record := Record{
		ID:                 uuid.NewString(),
		AssignmentID:       assignment.ID,
		Ratings:            enrichRatings(tmpl, ratings),
		TotalScore:         score.TotalScore,
		OverallRatingLabel: score.OverallRatingLabel,
		ManagerSummary:     managerSummary,
		CreatedAt:          now,
	}

	applied, err := s.store.SubmitAssignment(ctx, assignmentID, tr.from, record, now)
	if err != nil {
		return Record{}, err
	}
	if !applied {
		return Record{}, s.loserError(ctx, assignmentID, EventSubmit)
	}

	assignment.Status = tr.to
	assignment.SubmittedAt = &now
	assignment.LatestAppraisalID = record.ID
	s.fireHooks(ctx, assignment, EventSubmit)
	return record, nil
}

// PublishAssignment stamps the record and flips submitted→published.
func (s *Service) PublishAssignment(ctx context.Context, assignmentID, managerSummary string, actor Actor) (Record, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return Record{}, err
	}
	if _, err := checkTransition(assignment, EventPublish, actor); err != nil {
		return Record{}, err
	}
	if assignment.LatestAppraisalID == "" {
		return Record{}, &StateError{Entity: "assignment", Current: assignment.Status, Attempted: EventPublish}
	}

	publishedAt := s.now().UTC()
	applied, err := s.store.PublishAssignment(ctx, assignmentID, assignment.LatestAppraisalID, publishedAt, managerSummary)
	if err != nil {
		return Record{}, err
	}
	if !applied {
		return Record{}, s.loserError(ctx, assignmentID, EventPublish)
	}

	assignment.Status = AssignmentStatusPublished
	s.fireHooks(ctx, assignment, EventPublish)

	record, found, err := s.store.GetRecord(ctx, assignment.LatestAppraisalID)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, &NotFoundError{Entity: "record", ID: assignment.LatestAppraisalID}
	}
	return record, nil
}

// LatestRecord resolves an assignment's current record by id lookup.
func (s *Service) LatestRecord(ctx context.Context, assignmentID string) (Record, error) {
	record, found, err := s.store.RecordByAssignment(ctx, assignmentID)
	if err != nil {
		return Record{}, err
	}
	if !found {
		return Record{}, &NotFoundError{Entity: "record", ID: "for assignment " + assignmentID}
	}
	return record, nil
}

// loserError distinguishes a lost race from an illegal state after a CAS
// write affected no rows.
func (s *Service) loserError(ctx context.Context, assignmentID, event string) error {
	current, found, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Entity: "assignment", ID: assignmentID}
	}
	if tr, ok := transitions[event]; ok && current.Status == tr.from {
		return &ConflictError{Message: fmt.Sprintf("assignment %s was modified concurrently", assignmentID)}
	}
	return &ConflictError{Message: fmt.Sprintf("assignment %s lost %s race, now %q", assignmentID, event, current.Status)}
}

// enrichRatings copies title/weight/maxScore from the template so the
// record stays self-describing after later template edits. Caller-supplied
// values for these fields are discarded; only the rating value is theirs.
func enrichRatings(tmpl Template, ratings []Rating) []Rating {
	byKey := make(map[string]Criterion, len(tmpl.Criteria))
	for _, criterion := range tmpl.Criteria {
		byKey[criterion.Key] = criterion
	}
	enriched := make([]Rating, 0, len(ratings))
	for _, rating := range ratings {
		criterion := byKey[rating.Key]
		rating.Title = criterion.Title
		rating.Weight = criterion.Weight
		rating.MaxScore = criterion.MaxScore
		if rating.MaxScore <= 0 {
			rating.MaxScore = tmpl.RatingScale.Max
		}
		enriched = append(enriched, rating)
	}
	return enriched
}
