package appraisal

import (
	"context"
	"time"
)

func (s *Store) CycleStatusCounts(ctx context.Context, cycleID string) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(1)
    FROM appraisal_assignments
    WHERE cycle_id = $1
    GROUP BY status
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *Store) PublishedScores(ctx context.Context, cycleID string) ([]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.total_score
    FROM appraisal_records r
    JOIN appraisal_assignments a ON a.latest_appraisal_id = r.id
    WHERE a.cycle_id = $1 AND r.hr_published_at IS NOT NULL
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func (s *Store) AssignmentsDueBefore(ctx context.Context, deadline time.Time) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, cycle_id, template_id, employee_profile_id, manager_profile_id, department_id, status, assigned_at, due_date, submitted_at, latest_appraisal_id
    FROM appraisal_assignments
    WHERE due_date IS NOT NULL AND due_date <= $1 AND status IN ($2, $3)
  `, deadline, AssignmentStatusNotStarted, AssignmentStatusInProgress)
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
