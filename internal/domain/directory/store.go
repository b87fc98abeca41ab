package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListEmployeesInDepartments(ctx context.Context, departmentIDs []string) ([]EmployeeRef, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, department_id, COALESCE(manager_id::text, ''), full_name
    FROM employees
    WHERE department_id = ANY($1) AND is_active
    ORDER BY full_name
  `, departmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []EmployeeRef
	for rows.Next() {
		var ref EmployeeRef
		if err := rows.Scan(&ref.EmployeeID, &ref.DepartmentID, &ref.ManagerID, &ref.FullName); err != nil {
			return nil, err
		}
		employees = append(employees, ref)
	}
	return employees, rows.Err()
}

func (s *Store) ManagerOf(ctx context.Context, employeeID string) (EmployeeRef, bool, error) {
	var ref EmployeeRef
	err := s.DB.QueryRow(ctx, `
    SELECT m.id, m.department_id, COALESCE(m.manager_id::text, ''), m.full_name
    FROM employees e
    JOIN employees m ON m.id = e.manager_id
    WHERE e.id = $1
  `, employeeID).Scan(&ref.EmployeeID, &ref.DepartmentID, &ref.ManagerID, &ref.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeRef{}, false, nil
	}
	if err != nil {
		return EmployeeRef{}, false, err
	}
	return ref, true, nil
}
