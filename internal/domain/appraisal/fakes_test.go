package appraisal

import (
	"context"
	"sync"
	"time"

	"appraisal/internal/domain/directory"
)

// memStore is an in-memory StoreAPI with the same CAS and uniqueness
// semantics as the SQL store.
type memStore struct {
	mu          sync.Mutex
	templates   map[string]Template
	cycles      map[string]Cycle
	assignments map[string]Assignment
	records     map[string]Record
	disputes    map[string]Dispute
}

func newMemStore() *memStore {
	return &memStore{
		templates:   map[string]Template{},
		cycles:      map[string]Cycle{},
		assignments: map[string]Assignment{},
		records:     map[string]Record{},
		disputes:    map[string]Dispute{},
	}
}

func (m *memStore) CreateTemplate(ctx context.Context, tmpl Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[tmpl.ID] = tmpl
	return nil
}

func (m *memStore) GetTemplate(ctx context.Context, templateID string) (Template, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tmpl, ok := m.templates[templateID]
	return tmpl, ok, nil
}

func (m *memStore) ListTemplates(ctx context.Context, activeOnly bool) ([]Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Template
	for _, tmpl := range m.templates {
		if activeOnly && !tmpl.IsActive {
			continue
		}
		out = append(out, tmpl)
	}
	return out, nil
}

func (m *memStore) SetTemplateActive(ctx context.Context, templateID string, active bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tmpl, ok := m.templates[templateID]
	if !ok {
		return false, nil
	}
	tmpl.IsActive = active
	m.templates[templateID] = tmpl
	return true, nil
}

func (m *memStore) ReplaceTemplateCriteria(ctx context.Context, templateID string, criteria []Criterion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tmpl := m.templates[templateID]
	tmpl.Criteria = criteria
	m.templates[templateID] = tmpl
	return nil
}

func (m *memStore) TemplateReferencedByStartedCycle(ctx context.Context, templateID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cycle := range m.cycles {
		if cycle.Status == CycleStatusPlanned {
			continue
		}
		for _, ta := range cycle.TemplateAssignments {
			if ta.TemplateID == templateID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memStore) CreateCycle(ctx context.Context, cycle Cycle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles[cycle.ID] = cycle
	return nil
}

func (m *memStore) GetCycle(ctx context.Context, cycleID string) (Cycle, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cycle, ok := m.cycles[cycleID]
	return cycle, ok, nil
}

func (m *memStore) ListCycles(ctx context.Context) ([]Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Cycle
	for _, cycle := range m.cycles {
		out = append(out, cycle)
	}
	return out, nil
}

func (m *memStore) UpdateCycleStatus(ctx context.Context, cycleID, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cycle, ok := m.cycles[cycleID]
	if !ok || cycle.Status != from {
		return false, nil
	}
	cycle.Status = to
	m.cycles[cycleID] = cycle
	return true, nil
}

func (m *memStore) CreateAssignment(ctx context.Context, assignment Assignment) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.assignments {
		if existing.CycleID == assignment.CycleID &&
			existing.TemplateID == assignment.TemplateID &&
			existing.EmployeeProfileID == assignment.EmployeeProfileID {
			return false, nil
		}
	}
	m.assignments[assignment.ID] = assignment
	return true, nil
}

func (m *memStore) GetAssignment(ctx context.Context, assignmentID string) (Assignment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[assignmentID]
	return assignment, ok, nil
}

func (m *memStore) ListAssignments(ctx context.Context, cycleID, employeeID, managerID string) ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Assignment
	for _, assignment := range m.assignments {
		if cycleID != "" && assignment.CycleID != cycleID {
			continue
		}
		if employeeID != "" && assignment.EmployeeProfileID != employeeID {
			continue
		}
		if managerID != "" && assignment.ManagerProfileID != managerID {
			continue
		}
		out = append(out, assignment)
	}
	return out, nil
}

func (m *memStore) TransitionAssignment(ctx context.Context, assignmentID, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[assignmentID]
	if !ok || assignment.Status != from {
		return false, nil
	}
	assignment.Status = to
	m.assignments[assignmentID] = assignment
	return true, nil
}

func (m *memStore) SubmitAssignment(ctx context.Context, assignmentID, from string, record Record, submittedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[assignmentID]
	if !ok || assignment.Status != from {
		return false, nil
	}
	assignment.Status = AssignmentStatusSubmitted
	assignment.SubmittedAt = &submittedAt
	assignment.LatestAppraisalID = record.ID
	m.assignments[assignmentID] = assignment
	m.records[record.ID] = record
	return true, nil
}

func (m *memStore) PublishAssignment(ctx context.Context, assignmentID, recordID string, publishedAt time.Time, summary string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[assignmentID]
	if !ok || assignment.Status != AssignmentStatusSubmitted {
		return false, nil
	}
	record, ok := m.records[recordID]
	if !ok {
		return false, nil
	}
	assignment.Status = AssignmentStatusPublished
	m.assignments[assignmentID] = assignment
	record.HRPublishedAt = &publishedAt
	if summary != "" {
		record.ManagerSummary = summary
	}
	m.records[recordID] = record
	return true, nil
}

func (m *memStore) GetRecord(ctx context.Context, recordID string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[recordID]
	return record, ok, nil
}

func (m *memStore) RecordByAssignment(ctx context.Context, assignmentID string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[assignmentID]
	if !ok || assignment.LatestAppraisalID == "" {
		return Record{}, false, nil
	}
	record, ok := m.records[assignment.LatestAppraisalID]
	return record, ok, nil
}

// CreateDispute enforces the one-open-dispute guard the way the partial
// unique index does in SQL.
func (m *memStore) CreateDispute(ctx context.Context, dispute Dispute) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dispute.Status == DisputeStatusOpen {
		for _, existing := range m.disputes {
			if existing.AppraisalID == dispute.AppraisalID && existing.Status == DisputeStatusOpen {
				return &ConflictError{Message: "an open dispute already exists for this record"}
			}
		}
	}
	m.disputes[dispute.ID] = dispute
	return nil
}

func (m *memStore) OpenDisputeExists(ctx context.Context, appraisalID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dispute := range m.disputes {
		if dispute.AppraisalID == appraisalID && dispute.Status == DisputeStatusOpen {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListDisputes(ctx context.Context, cycleID string) ([]Dispute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Dispute
	for _, dispute := range m.disputes {
		if dispute.CycleID == cycleID {
			out = append(out, dispute)
		}
	}
	return out, nil
}

func (m *memStore) CycleStatusCounts(ctx context.Context, cycleID string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, assignment := range m.assignments {
		if assignment.CycleID == cycleID {
			counts[assignment.Status]++
		}
	}
	return counts, nil
}

func (m *memStore) PublishedScores(ctx context.Context, cycleID string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var scores []float64
	for _, assignment := range m.assignments {
		if assignment.CycleID != cycleID || assignment.LatestAppraisalID == "" {
			continue
		}
		record, ok := m.records[assignment.LatestAppraisalID]
		if ok && record.HRPublishedAt != nil {
			scores = append(scores, record.TotalScore)
		}
	}
	return scores, nil
}

func (m *memStore) AssignmentsDueBefore(ctx context.Context, deadline time.Time) ([]Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Assignment
	for _, assignment := range m.assignments {
		if assignment.DueDate == nil || assignment.DueDate.After(deadline) {
			continue
		}
		if assignment.Status == AssignmentStatusNotStarted || assignment.Status == AssignmentStatusInProgress {
			out = append(out, assignment)
		}
	}
	return out, nil
}

// memDirectory is a canned directory collaborator.
type memDirectory struct {
	employees []directory.EmployeeRef
	failures  int
	calls     int
	err       error
}

func (d *memDirectory) ListEmployeesInDepartments(ctx context.Context, departmentIDs []string) ([]directory.EmployeeRef, error) {
	d.calls++
	if d.failures > 0 {
		d.failures--
		return nil, d.err
	}
	wanted := map[string]bool{}
	for _, id := range departmentIDs {
		wanted[id] = true
	}
	var out []directory.EmployeeRef
	for _, employee := range d.employees {
		if wanted[employee.DepartmentID] {
			out = append(out, employee)
		}
	}
	return out, nil
}

func (d *memDirectory) ManagerOf(ctx context.Context, employeeID string) (directory.EmployeeRef, bool, error) {
	for _, employee := range d.employees {
		if employee.EmployeeID == employeeID && employee.ManagerID != "" {
			return directory.EmployeeRef{EmployeeID: employee.ManagerID}, true, nil
		}
	}
	return directory.EmployeeRef{}, false, nil
}

// memNotifier records dispatched notifications.
type memNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *memNotifier) Notify(ctx context.Context, toEmployeeID, ntype, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, ntype+":"+toEmployeeID)
	return nil
}
