// Package directory is the engine's view of the employee directory. The
// appraisal engine only ever consumes the Service interface; the pgx store
// below is one adapter over the seeded employees and departments tables.
package directory

import "context"

type EmployeeRef struct {
	EmployeeID   string `json:"employeeId"`
	DepartmentID string `json:"departmentId"`
	ManagerID    string `json:"managerId,omitempty"`
	FullName     string `json:"fullName,omitempty"`
}

type Service interface {
	ListEmployeesInDepartments(ctx context.Context, departmentIDs []string) ([]EmployeeRef, error)
	ManagerOf(ctx context.Context, employeeID string) (EmployeeRef, bool, error)
}
