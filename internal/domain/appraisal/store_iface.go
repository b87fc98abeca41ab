package appraisal

import (
	"context"
	"time"
)

// StoreAPI is the persistence seam for the engine. The pgx store implements
// it against postgres; tests implement it in memory. Methods returning a
// bool report whether the guarded write actually happened: false means the
// compare-and-swap or uniqueness guard rejected it.
type StoreAPI interface {
	CreateTemplate(ctx context.Context, tmpl Template) error
	GetTemplate(ctx context.Context, templateID string) (Template, bool, error)
	ListTemplates(ctx context.Context, activeOnly bool) ([]Template, error)
	SetTemplateActive(ctx context.Context, templateID string, active bool) (bool, error)
	ReplaceTemplateCriteria(ctx context.Context, templateID string, criteria []Criterion) error
	TemplateReferencedByStartedCycle(ctx context.Context, templateID string) (bool, error)

	CreateCycle(ctx context.Context, cycle Cycle) error
	GetCycle(ctx context.Context, cycleID string) (Cycle, bool, error)
	ListCycles(ctx context.Context) ([]Cycle, error)
	// UpdateCycleStatus flips status only when the current value matches from.
	UpdateCycleStatus(ctx context.Context, cycleID, from, to string) (bool, error)

	// CreateAssignment inserts unless the (cycleID, templateID,
	// employeeProfileID) guard already holds a row.
	CreateAssignment(ctx context.Context, assignment Assignment) (bool, error)
	GetAssignment(ctx context.Context, assignmentID string) (Assignment, bool, error)
	ListAssignments(ctx context.Context, cycleID, employeeID, managerID string) ([]Assignment, error)
	// TransitionAssignment is the CAS for record-less transitions.
	TransitionAssignment(ctx context.Context, assignmentID, from, to string) (bool, error)
	// SubmitAssignment atomically flips from→submitted, inserts the record
	// and rebinds latest_appraisal_id.
	SubmitAssignment(ctx context.Context, assignmentID, from string, record Record, submittedAt time.Time) (bool, error)
	// PublishAssignment atomically flips submitted→published and stamps the
	// record with hrPublishedAt and the manager summary.
	PublishAssignment(ctx context.Context, assignmentID, recordID string, publishedAt time.Time, summary string) (bool, error)

	GetRecord(ctx context.Context, recordID string) (Record, bool, error)
	RecordByAssignment(ctx context.Context, assignmentID string) (Record, bool, error)

	CreateDispute(ctx context.Context, dispute Dispute) error
	OpenDisputeExists(ctx context.Context, appraisalID string) (bool, error)
	ListDisputes(ctx context.Context, cycleID string) ([]Dispute, error)

	CycleStatusCounts(ctx context.Context, cycleID string) (map[string]int, error)
	PublishedScores(ctx context.Context, cycleID string) ([]float64, error)

	AssignmentsDueBefore(ctx context.Context, deadline time.Time) ([]Assignment, error)
}
