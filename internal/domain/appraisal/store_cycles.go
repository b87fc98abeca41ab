package appraisal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateCycle(ctx context.Context, cycle Cycle) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    INSERT INTO appraisal_cycles (id, name, cycle_type, start_date, end_date, manager_due_date, employee_ack_due_date, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, cycle.ID, cycle.Name, cycle.CycleType, cycle.StartDate, cycle.EndDate, cycle.ManagerDueDate, cycle.EmployeeAckDueDate, cycle.Status, cycle.CreatedAt); err != nil {
		return err
	}

	for _, ta := range cycle.TemplateAssignments {
		if _, err := tx.Exec(ctx, `
      INSERT INTO appraisal_cycle_templates (cycle_id, template_id, department_ids)
      VALUES ($1,$2,$3)
    `, cycle.ID, ta.TemplateID, ta.DepartmentIDs); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) GetCycle(ctx context.Context, cycleID string) (Cycle, bool, error) {
	var cycle Cycle
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, cycle_type, start_date, end_date, manager_due_date, employee_ack_due_date, status, created_at
    FROM appraisal_cycles
    WHERE id = $1
  `, cycleID).Scan(&cycle.ID, &cycle.Name, &cycle.CycleType, &cycle.StartDate, &cycle.EndDate, &cycle.ManagerDueDate, &cycle.EmployeeAckDueDate, &cycle.Status, &cycle.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cycle{}, false, nil
	}
	if err != nil {
		return Cycle{}, false, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT template_id, department_ids
    FROM appraisal_cycle_templates
    WHERE cycle_id = $1
    ORDER BY template_id
  `, cycleID)
	if err != nil {
		return Cycle{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var ta TemplateAssignment
		if err := rows.Scan(&ta.TemplateID, &ta.DepartmentIDs); err != nil {
			return Cycle{}, false, err
		}
		cycle.TemplateAssignments = append(cycle.TemplateAssignments, ta)
	}
	return cycle, true, rows.Err()
}

func (s *Store) ListCycles(ctx context.Context) ([]Cycle, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, cycle_type, start_date, end_date, manager_due_date, employee_ack_due_date, status, created_at
    FROM appraisal_cycles
    ORDER BY start_date DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var cycle Cycle
		if err := rows.Scan(&cycle.ID, &cycle.Name, &cycle.CycleType, &cycle.StartDate, &cycle.EndDate, &cycle.ManagerDueDate, &cycle.EmployeeAckDueDate, &cycle.Status, &cycle.CreatedAt); err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}

func (s *Store) UpdateCycleStatus(ctx context.Context, cycleID, from, to string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE appraisal_cycles SET status = $1 WHERE id = $2 AND status = $3
  `, to, cycleID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
