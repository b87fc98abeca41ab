package appraisal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type TemplateInput struct {
	Name                    string      `json:"name"`
	TemplateType            string      `json:"templateType"`
	RatingScale             RatingScale `json:"ratingScale"`
	Criteria                []Criterion `json:"criteria"`
	ApplicableDepartmentIDs []string    `json:"applicableDepartmentIds"`
	ApplicablePositionIDs   []string    `json:"applicablePositionIds"`
}

// CreateTemplate validates the structural invariants and persists the
// template. Every violated rule is reported, not just the first.
func (s *Service) CreateTemplate(ctx context.Context, input TemplateInput) (Template, error) {
	if violations := validateTemplateInput(input); len(violations) > 0 {
		return Template{}, &ValidationError{Violations: violations}
	}

	tmpl := Template{
		ID:                      uuid.NewString(),
		Name:                    strings.TrimSpace(input.Name),
		TemplateType:            input.TemplateType,
		RatingScale:             input.RatingScale,
		Criteria:                input.Criteria,
		IsActive:                true,
		ApplicableDepartmentIDs: input.ApplicableDepartmentIDs,
		ApplicablePositionIDs:   input.ApplicablePositionIDs,
		CreatedAt:               s.now().UTC(),
	}
	if err := s.store.CreateTemplate(ctx, tmpl); err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

func validateTemplateInput(input TemplateInput) []string {
	var violations []string
	if strings.TrimSpace(input.Name) == "" {
		violations = append(violations, "name is required")
	}
	if !contains(templateTypes, input.TemplateType) {
		violations = append(violations, fmt.Sprintf("templateType %q is not one of %s", input.TemplateType, strings.Join(templateTypes, ", ")))
	}
	if !contains(scaleTypes, input.RatingScale.Type) {
		violations = append(violations, fmt.Sprintf("ratingScale.type %q is not one of %s", input.RatingScale.Type, strings.Join(scaleTypes, ", ")))
	}
	if input.RatingScale.Max <= input.RatingScale.Min {
		violations = append(violations, "ratingScale.max must be greater than ratingScale.min")
	}

	// Legacy templates without criteria stay valid; the weight sum rule only
	// binds when criteria are present.
	if len(input.Criteria) > 0 {
		weightSum := 0
		seen := map[string]bool{}
		for i, criterion := range input.Criteria {
			if strings.TrimSpace(criterion.Key) == "" {
				violations = append(violations, fmt.Sprintf("criteria[%d].key is required", i))
			}
			if seen[criterion.Key] {
				violations = append(violations, fmt.Sprintf("criteria key %q is not unique", criterion.Key))
			}
			seen[criterion.Key] = true
			if criterion.Weight < 1 || criterion.Weight > 100 {
				violations = append(violations, fmt.Sprintf("criteria[%d].weight must be between 1 and 100", i))
			}
			if criterion.MaxScore > input.RatingScale.Max {
				violations = append(violations, fmt.Sprintf("criteria[%d].maxScore exceeds ratingScale.max", i))
			}
			weightSum += criterion.Weight
		}
		if weightSum != 100 {
			violations = append(violations, fmt.Sprintf("criteria weights sum to %d, expected 100", weightSum))
		}
	}
	return violations
}

func (s *Service) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	tmpl, found, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return Template{}, err
	}
	if !found {
		return Template{}, &NotFoundError{Entity: "template", ID: templateID}
	}
	return tmpl, nil
}

func (s *Service) ListTemplates(ctx context.Context, activeOnly bool) ([]Template, error) {
	return s.store.ListTemplates(ctx, activeOnly)
}

// DeactivateTemplate soft-deactivates. Past cycles referencing the template
// stay inspectable so this never fails on references.
func (s *Service) DeactivateTemplate(ctx context.Context, templateID string) error {
	found, err := s.store.SetTemplateActive(ctx, templateID, false)
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Entity: "template", ID: templateID}
	}
	return nil
}

// UpdateTemplateCriteria replaces the criteria set. Once a non-planned cycle
// references the template the criteria are frozen.
func (s *Service) UpdateTemplateCriteria(ctx context.Context, templateID string, criteria []Criterion) (Template, error) {
	tmpl, found, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return Template{}, err
	}
	if !found {
		return Template{}, &NotFoundError{Entity: "template", ID: templateID}
	}

	referenced, err := s.store.TemplateReferencedByStartedCycle(ctx, templateID)
	if err != nil {
		return Template{}, err
	}
	if referenced {
		return Template{}, &StateError{Entity: "template", Current: "referenced", Attempted: "update_criteria"}
	}

	input := TemplateInput{
		Name:         tmpl.Name,
		TemplateType: tmpl.TemplateType,
		RatingScale:  tmpl.RatingScale,
		Criteria:     criteria,
	}
	if violations := validateTemplateInput(input); len(violations) > 0 {
		return Template{}, &ValidationError{Violations: violations}
	}

	tmpl.Criteria = criteria
	if err := s.store.ReplaceTemplateCriteria(ctx, templateID, criteria); err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
