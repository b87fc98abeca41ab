package appraisal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateTemplate(ctx context.Context, tmpl Template) error {
	scaleJSON, err := json.Marshal(tmpl.RatingScale)
	if err != nil {
		return err
	}
	criteriaJSON, err := json.Marshal(tmpl.Criteria)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO appraisal_templates (id, name, template_type, rating_scale_json, criteria_json, is_active, department_ids, position_ids, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, tmpl.ID, tmpl.Name, tmpl.TemplateType, scaleJSON, criteriaJSON, tmpl.IsActive, tmpl.ApplicableDepartmentIDs, tmpl.ApplicablePositionIDs, tmpl.CreatedAt)
	return err
}

func (s *Store) GetTemplate(ctx context.Context, templateID string) (Template, bool, error) {
	var tmpl Template
	var scaleJSON, criteriaJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, template_type, rating_scale_json, criteria_json, is_active, department_ids, position_ids, created_at
    FROM appraisal_templates
    WHERE id = $1
  `, templateID).Scan(&tmpl.ID, &tmpl.Name, &tmpl.TemplateType, &scaleJSON, &criteriaJSON, &tmpl.IsActive, &tmpl.ApplicableDepartmentIDs, &tmpl.ApplicablePositionIDs, &tmpl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, false, nil
	}
	if err != nil {
		return Template{}, false, err
	}
	if err := json.Unmarshal(scaleJSON, &tmpl.RatingScale); err != nil {
		return Template{}, false, err
	}
	if err := json.Unmarshal(criteriaJSON, &tmpl.Criteria); err != nil {
		return Template{}, false, err
	}
	return tmpl, true, nil
}

func (s *Store) ListTemplates(ctx context.Context, activeOnly bool) ([]Template, error) {
	query := `
    SELECT id, name, template_type, rating_scale_json, criteria_json, is_active, department_ids, position_ids, created_at
    FROM appraisal_templates
  `
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var tmpl Template
		var scaleJSON, criteriaJSON []byte
		if err := rows.Scan(&tmpl.ID, &tmpl.Name, &tmpl.TemplateType, &scaleJSON, &criteriaJSON, &tmpl.IsActive, &tmpl.ApplicableDepartmentIDs, &tmpl.ApplicablePositionIDs, &tmpl.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scaleJSON, &tmpl.RatingScale); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(criteriaJSON, &tmpl.Criteria); err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, rows.Err()
}

func (s *Store) SetTemplateActive(ctx context.Context, templateID string, active bool) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE appraisal_templates SET is_active = $1 WHERE id = $2
  `, active, templateID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ReplaceTemplateCriteria(ctx context.Context, templateID string, criteria []Criterion) error {
	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE appraisal_templates SET criteria_json = $1 WHERE id = $2
  `, criteriaJSON, templateID)
	return err
}

func (s *Store) TemplateReferencedByStartedCycle(ctx context.Context, templateID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM appraisal_cycles c
    JOIN appraisal_cycle_templates ct ON ct.cycle_id = c.id
    WHERE ct.template_id = $1 AND c.status <> $2
  `, templateID, CycleStatusPlanned).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
