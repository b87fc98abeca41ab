package appraisal

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateAssignment(ctx context.Context, assignment Assignment) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO appraisal_assignments (id, cycle_id, template_id, employee_profile_id, manager_profile_id, department_id, status, assigned_at, due_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    ON CONFLICT (cycle_id, template_id, employee_profile_id) DO NOTHING
  `, assignment.ID, assignment.CycleID, assignment.TemplateID, assignment.EmployeeProfileID, assignment.ManagerProfileID, assignment.DepartmentID, assignment.Status, assignment.AssignedAt, assignment.DueDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID string) (Assignment, bool, error) {
	var a Assignment
	var latest *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, cycle_id, template_id, employee_profile_id, manager_profile_id, department_id, status, assigned_at, due_date, submitted_at, latest_appraisal_id
    FROM appraisal_assignments
    WHERE id = $1
  `, assignmentID).Scan(&a.ID, &a.CycleID, &a.TemplateID, &a.EmployeeProfileID, &a.ManagerProfileID, &a.DepartmentID, &a.Status, &a.AssignedAt, &a.DueDate, &a.SubmittedAt, &latest)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, false, nil
	}
	if err != nil {
		return Assignment{}, false, err
	}
	if latest != nil {
		a.LatestAppraisalID = *latest
	}
	return a, true, nil
}

func (s *Store) ListAssignments(ctx context.Context, cycleID, employeeID, managerID string) ([]Assignment, error) {
	query := `
    SELECT id, cycle_id, template_id, employee_profile_id, manager_profile_id, department_id, status, assigned_at, due_date, submitted_at, latest_appraisal_id
    FROM appraisal_assignments
    WHERE 1=1
  `
	args := []any{}
	if cycleID != "" {
		args = append(args, cycleID)
		query += " AND cycle_id = $" + strconv.Itoa(len(args))
	}
	if employeeID != "" {
		args = append(args, employeeID)
		query += " AND employee_profile_id = $" + strconv.Itoa(len(args))
	}
	if managerID != "" {
		args = append(args, managerID)
		query += " AND manager_profile_id = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY assigned_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		var latest *string
		if err := rows.Scan(&a.ID, &a.CycleID, &a.TemplateID, &a.EmployeeProfileID, &a.ManagerProfileID, &a.DepartmentID, &a.Status, &a.AssignedAt, &a.DueDate, &a.SubmittedAt, &latest); err != nil {
			return nil, err
		}
		if latest != nil {
			a.LatestAppraisalID = *latest
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (s *Store) TransitionAssignment(ctx context.Context, assignmentID, from, to string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE appraisal_assignments SET status = $1 WHERE id = $2 AND status = $3
  `, to, assignmentID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) SubmitAssignment(ctx context.Context, assignmentID, from string, record Record, submittedAt time.Time) (bool, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE appraisal_assignments
    SET status = $1, submitted_at = $2, latest_appraisal_id = $3
    WHERE id = $4 AND status = $5
  `, AssignmentStatusSubmitted, submittedAt, record.ID, assignmentID, from)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	ratingsJSON, err := json.Marshal(record.Ratings)
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `
    INSERT INTO appraisal_records (id, assignment_id, ratings_json, total_score, overall_rating_label, manager_summary, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, record.ID, record.AssignmentID, ratingsJSON, record.TotalScore, record.OverallRatingLabel, record.ManagerSummary, record.CreatedAt); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) PublishAssignment(ctx context.Context, assignmentID, recordID string, publishedAt time.Time, summary string) (bool, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE appraisal_assignments SET status = $1 WHERE id = $2 AND status = $3
  `, AssignmentStatusPublished, assignmentID, AssignmentStatusSubmitted)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if summary != "" {
		_, err = tx.Exec(ctx, `
      UPDATE appraisal_records SET hr_published_at = $1, manager_summary = $2 WHERE id = $3
    `, publishedAt, summary, recordID)
	} else {
		_, err = tx.Exec(ctx, `
      UPDATE appraisal_records SET hr_published_at = $1 WHERE id = $2
    `, publishedAt, recordID)
	}
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
