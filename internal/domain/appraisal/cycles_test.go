package appraisal

import (
	"context"
	"errors"
	"testing"
	"time"

	"appraisal/internal/domain/directory"
)

func seedActiveTemplate(t *testing.T, store *memStore) Template {
	t.Helper()
	tmpl := fivePointTemplate(
		Criterion{Key: "delivery", Title: "Delivery", Weight: 60, MaxScore: 5, Required: true},
		Criterion{Key: "teamwork", Title: "Teamwork", Weight: 40, MaxScore: 5, Required: true},
	)
	if err := store.CreateTemplate(context.Background(), tmpl); err != nil {
		t.Fatalf("seed template: %v", err)
	}
	return tmpl
}

func engineeringDirectory() *memDirectory {
	return &memDirectory{employees: []directory.EmployeeRef{
		{EmployeeID: "emp-1", DepartmentID: "dept-eng", ManagerID: "mgr-1", FullName: "Alex Dev"},
		{EmployeeID: "emp-2", DepartmentID: "dept-eng", ManagerID: "mgr-1", FullName: "Sam Dev"},
		{EmployeeID: "emp-3", DepartmentID: "dept-eng", ManagerID: "mgr-1", FullName: "Riley Dev"},
	}}
}

func TestCreateCycleValidation(t *testing.T) {
	store := newMemStore()
	tmpl := seedActiveTemplate(t, store)
	inactive := fivePointTemplate()
	inactive.ID = "tmpl-inactive"
	inactive.IsActive = false
	store.templates[inactive.ID] = inactive

	svc := newTestService(store, nil)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateCycle(context.Background(), CycleInput{
		Name:      "",
		StartDate: start,
		EndDate:   start.AddDate(0, -1, 0),
		TemplateAssignments: []TemplateAssignment{
			{TemplateID: tmpl.ID, DepartmentIDs: nil},
			{TemplateID: tmpl.ID, DepartmentIDs: []string{"dept-eng"}},
			{TemplateID: "tmpl-unknown", DepartmentIDs: []string{"dept-eng"}},
			{TemplateID: inactive.ID, DepartmentIDs: []string{"dept-eng"}},
		},
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	// name, end before start, empty departmentIds, repeated template,
	// unknown template, inactive template.
	if len(verr.Violations) != 6 {
		t.Fatalf("got %d violations %v, want 6", len(verr.Violations), verr.Violations)
	}
}

func TestActivateCycleFanOutIsIdempotent(t *testing.T) {
	store := newMemStore()
	tmpl := seedActiveTemplate(t, store)
	dir := engineeringDirectory()
	svc := newTestService(store, dir)
	ctx := context.Background()

	cycle, err := svc.CreateCycle(ctx, CycleInput{
		Name:      "FY26 Annual",
		CycleType: TemplateTypeAnnual,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TemplateAssignments: []TemplateAssignment{
			{TemplateID: tmpl.ID, DepartmentIDs: []string{"dept-eng"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateCycle: %v", err)
	}

	first, err := svc.ActivateCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("ActivateCycle: %v", err)
	}
	if first.AssignmentsCreated != 3 {
		t.Fatalf("first activation created %d assignments, want 3", first.AssignmentsCreated)
	}

	got, _, _ := store.GetCycle(ctx, cycle.ID)
	if got.Status != CycleStatusActive {
		t.Fatalf("cycle status = %q, want active", got.Status)
	}

	// Re-running fills gaps only; nothing is duplicated.
	second, err := svc.ActivateCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("second ActivateCycle: %v", err)
	}
	if second.AssignmentsCreated != 0 {
		t.Fatalf("second activation created %d assignments, want 0", second.AssignmentsCreated)
	}

	assignments, err := svc.ListAssignments(ctx, cycle.ID, Actor{Role: RoleHR})
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	if len(assignments) != 3 {
		t.Fatalf("got %d assignments, want 3", len(assignments))
	}
	for _, assignment := range assignments {
		if assignment.Status != AssignmentStatusNotStarted {
			t.Errorf("assignment %s status = %q, want not_started", assignment.ID, assignment.Status)
		}
		if assignment.ManagerProfileID != "mgr-1" {
			t.Errorf("assignment %s manager = %q, want mgr-1", assignment.ID, assignment.ManagerProfileID)
		}
	}
}

func TestActivateCycleSkipsEmployeesWithoutManager(t *testing.T) {
	store := newMemStore()
	tmpl := seedActiveTemplate(t, store)
	dir := &memDirectory{employees: []directory.EmployeeRef{
		{EmployeeID: "emp-1", DepartmentID: "dept-eng", ManagerID: "mgr-1"},
		{EmployeeID: "emp-orphan", DepartmentID: "dept-eng"},
	}}
	svc := newTestService(store, dir)
	ctx := context.Background()

	cycle, err := svc.CreateCycle(ctx, CycleInput{
		Name:      "FY26 Annual",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TemplateAssignments: []TemplateAssignment{
			{TemplateID: tmpl.ID, DepartmentIDs: []string{"dept-eng"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateCycle: %v", err)
	}

	result, err := svc.ActivateCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("ActivateCycle: %v", err)
	}
	if result.AssignmentsCreated != 1 {
		t.Errorf("created %d, want 1", result.AssignmentsCreated)
	}
	if result.EmployeesSkipped != 1 {
		t.Errorf("skipped %d, want 1", result.EmployeesSkipped)
	}
}

func TestActivateCycleRetriesDirectory(t *testing.T) {
	store := newMemStore()
	tmpl := seedActiveTemplate(t, store)
	dir := engineeringDirectory()
	dir.failures = 2
	dir.err = errors.New("directory unavailable")
	svc := newTestService(store, dir)
	ctx := context.Background()

	cycle, err := svc.CreateCycle(ctx, CycleInput{
		Name:      "FY26 Annual",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TemplateAssignments: []TemplateAssignment{
			{TemplateID: tmpl.ID, DepartmentIDs: []string{"dept-eng"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateCycle: %v", err)
	}

	result, err := svc.ActivateCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("ActivateCycle after transient failures: %v", err)
	}
	if result.AssignmentsCreated != 3 {
		t.Fatalf("created %d, want 3", result.AssignmentsCreated)
	}
	if dir.calls != 3 {
		t.Fatalf("directory called %d times, want 3", dir.calls)
	}
}

func TestActivateCycleDirectoryExhaustsRetries(t *testing.T) {
	store := newMemStore()
	tmpl := seedActiveTemplate(t, store)
	dir := engineeringDirectory()
	dir.failures = 3
	dir.err = errors.New("directory unavailable")
	svc := newTestService(store, dir)
	ctx := context.Background()

	cycle, err := svc.CreateCycle(ctx, CycleInput{
		Name:      "FY26 Annual",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		TemplateAssignments: []TemplateAssignment{
			{TemplateID: tmpl.ID, DepartmentIDs: []string{"dept-eng"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateCycle: %v", err)
	}

	_, err = svc.ActivateCycle(ctx, cycle.ID)
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
}

func TestCycleStatusProgression(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()
	store.cycles["c1"] = Cycle{ID: "c1", Status: CycleStatusPlanned}

	// Cannot close or archive out of order.
	if _, err := svc.CloseCycle(ctx, "c1"); err == nil {
		t.Fatal("closing a planned cycle should fail")
	}
	if _, err := svc.ArchiveCycle(ctx, "c1"); err == nil {
		t.Fatal("archiving a planned cycle should fail")
	}

	store.cycles["c1"] = Cycle{ID: "c1", Status: CycleStatusActive}
	closed, err := svc.CloseCycle(ctx, "c1")
	if err != nil {
		t.Fatalf("CloseCycle: %v", err)
	}
	if closed.Status != CycleStatusClosed {
		t.Fatalf("status = %q, want closed", closed.Status)
	}

	archived, err := svc.ArchiveCycle(ctx, "c1")
	if err != nil {
		t.Fatalf("ArchiveCycle: %v", err)
	}
	if archived.Status != CycleStatusArchived {
		t.Fatalf("status = %q, want archived", archived.Status)
	}

	var serr *StateError
	if _, err := svc.ActivateCycle(ctx, "c1"); !errors.As(err, &serr) {
		t.Fatalf("activating an archived cycle: err = %v, want StateError", err)
	}
}

func TestCycleOperationsOnMissingCycle(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	ctx := context.Background()

	var nferr *NotFoundError
	if _, err := svc.GetCycle(ctx, "missing"); !errors.As(err, &nferr) {
		t.Errorf("GetCycle: err = %v, want NotFoundError", err)
	}
	if _, err := svc.ActivateCycle(ctx, "missing"); !errors.As(err, &nferr) {
		t.Errorf("ActivateCycle: err = %v, want NotFoundError", err)
	}
	if _, err := svc.CloseCycle(ctx, "missing"); !errors.As(err, &nferr) {
		t.Errorf("CloseCycle: err = %v, want NotFoundError", err)
	}
}
