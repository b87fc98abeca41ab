package appraisal

import (
	"context"
	"errors"
	"testing"
)

func newTestService(store *memStore, dir *memDirectory, opts ...Option) *Service {
	if dir == nil {
		dir = &memDirectory{}
	}
	return NewService(store, dir, nil, opts...)
}

func TestCreateTemplateReportsAllViolations(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	_, err := svc.CreateTemplate(context.Background(), TemplateInput{
		Name:         "  ",
		TemplateType: "quarterly",
		RatingScale:  RatingScale{Type: "letters", Min: 5, Max: 1},
		Criteria: []Criterion{
			{Key: "", Weight: 0, MaxScore: 9},
			{Key: "delivery", Weight: 150, MaxScore: 2},
		},
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	// name, templateType, scale type, max<=min, empty key, weight 0,
	// two maxScore>max, weight 150, weight sum.
	if len(verr.Violations) != 10 {
		t.Fatalf("got %d violations %v, want 10", len(verr.Violations), verr.Violations)
	}
}

func TestCreateTemplateAcceptsEmptyCriteria(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	tmpl, err := svc.CreateTemplate(context.Background(), TemplateInput{
		Name:         "Probation Check-in",
		TemplateType: TemplateTypeProbationary,
		RatingScale:  RatingScale{Type: ScaleThreePoint, Min: 1, Max: 3, Step: 1},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if !tmpl.IsActive {
		t.Error("new template should be active")
	}
	if tmpl.ID == "" {
		t.Error("template id not assigned")
	}
}

func TestCreateTemplateDuplicateCriterionKey(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	_, err := svc.CreateTemplate(context.Background(), TemplateInput{
		Name:         "Annual",
		TemplateType: TemplateTypeAnnual,
		RatingScale:  RatingScale{Type: ScaleFivePoint, Min: 1, Max: 5},
		Criteria: []Criterion{
			{Key: "delivery", Weight: 50, MaxScore: 5},
			{Key: "delivery", Weight: 50, MaxScore: 5},
		},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 1 {
		t.Fatalf("got violations %v, want exactly the duplicate key", verr.Violations)
	}
}

func TestDeactivateTemplateMissing(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	err := svc.DeactivateTemplate(context.Background(), "nope")
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestListTemplatesActiveOnly(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	for _, name := range []string{"one", "two"} {
		if _, err := svc.CreateTemplate(ctx, TemplateInput{
			Name:         name,
			TemplateType: TemplateTypeAdHoc,
			RatingScale:  RatingScale{Type: ScaleFivePoint, Min: 1, Max: 5},
		}); err != nil {
			t.Fatalf("CreateTemplate %s: %v", name, err)
		}
	}
	all, err := svc.ListTemplates(ctx, false)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if err := svc.DeactivateTemplate(ctx, all[0].ID); err != nil {
		t.Fatalf("DeactivateTemplate: %v", err)
	}

	active, err := svc.ListTemplates(ctx, true)
	if err != nil {
		t.Fatalf("ListTemplates active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d active templates, want 1", len(active))
	}
}

func TestUpdateTemplateCriteriaFrozenAfterCycleStart(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	tmpl, err := svc.CreateTemplate(ctx, TemplateInput{
		Name:         "Annual",
		TemplateType: TemplateTypeAnnual,
		RatingScale:  RatingScale{Type: ScaleFivePoint, Min: 1, Max: 5},
		Criteria:     []Criterion{{Key: "delivery", Weight: 100, MaxScore: 5, Required: true}},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	store.cycles["c1"] = Cycle{
		ID:                  "c1",
		Status:              CycleStatusActive,
		TemplateAssignments: []TemplateAssignment{{TemplateID: tmpl.ID, DepartmentIDs: []string{"d1"}}},
	}

	_, err = svc.UpdateTemplateCriteria(ctx, tmpl.ID, []Criterion{
		{Key: "delivery", Weight: 60, MaxScore: 5, Required: true},
		{Key: "teamwork", Weight: 40, MaxScore: 5},
	})
	var serr *StateError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StateError", err)
	}
}

func TestUpdateTemplateCriteriaOnPlannedCycle(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	tmpl, err := svc.CreateTemplate(ctx, TemplateInput{
		Name:         "Annual",
		TemplateType: TemplateTypeAnnual,
		RatingScale:  RatingScale{Type: ScaleFivePoint, Min: 1, Max: 5},
		Criteria:     []Criterion{{Key: "delivery", Weight: 100, MaxScore: 5, Required: true}},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	store.cycles["c1"] = Cycle{
		ID:                  "c1",
		Status:              CycleStatusPlanned,
		TemplateAssignments: []TemplateAssignment{{TemplateID: tmpl.ID, DepartmentIDs: []string{"d1"}}},
	}

	updated, err := svc.UpdateTemplateCriteria(ctx, tmpl.ID, []Criterion{
		{Key: "delivery", Weight: 70, MaxScore: 5, Required: true},
		{Key: "teamwork", Weight: 30, MaxScore: 5},
	})
	if err != nil {
		t.Fatalf("UpdateTemplateCriteria: %v", err)
	}
	if len(updated.Criteria) != 2 {
		t.Fatalf("got %d criteria, want 2", len(updated.Criteria))
	}
}
