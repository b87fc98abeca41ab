package appraisal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"appraisal/internal/domain/directory"
)

type CycleInput struct {
	Name                string               `json:"name"`
	CycleType           string               `json:"cycleType"`
	StartDate           time.Time            `json:"startDate"`
	EndDate             time.Time            `json:"endDate"`
	ManagerDueDate      *time.Time           `json:"managerDueDate"`
	EmployeeAckDueDate  *time.Time           `json:"employeeAcknowledgementDueDate"`
	TemplateAssignments []TemplateAssignment `json:"templateAssignments"`
}

// ActivationResult reports what one activate call did. Re-running activate
// on an already-active cycle is allowed and only fills gaps.
type ActivationResult struct {
	CycleID            string `json:"cycleId"`
	AssignmentsCreated int    `json:"assignmentsCreated"`
	EmployeesSkipped   int    `json:"employeesSkipped"`
}

func (s *Service) CreateCycle(ctx context.Context, input CycleInput) (Cycle, error) {
	var violations []string
	if strings.TrimSpace(input.Name) == "" {
		violations = append(violations, "name is required")
	}
	if !input.StartDate.Before(input.EndDate) {
		violations = append(violations, "startDate must be before endDate")
	}

	seen := map[string]bool{}
	for i, ta := range input.TemplateAssignments {
		if seen[ta.TemplateID] {
			violations = append(violations, fmt.Sprintf("templateAssignments[%d] repeats template %s", i, ta.TemplateID))
			continue
		}
		seen[ta.TemplateID] = true

		if len(ta.DepartmentIDs) == 0 {
			violations = append(violations, fmt.Sprintf("templateAssignments[%d].departmentIds must not be empty", i))
		}

		tmpl, found, err := s.store.GetTemplate(ctx, ta.TemplateID)
		if err != nil {
			return Cycle{}, err
		}
		if !found {
			violations = append(violations, fmt.Sprintf("templateAssignments[%d] references unknown template %s", i, ta.TemplateID))
		} else if !tmpl.IsActive {
			violations = append(violations, fmt.Sprintf("templateAssignments[%d] references inactive template %s", i, ta.TemplateID))
		}
	}
	if len(violations) > 0 {
		return Cycle{}, &ValidationError{Violations: violations}
	}

	cycle := Cycle{
		ID:                  uuid.NewString(),
		Name:                strings.TrimSpace(input.Name),
		CycleType:           input.CycleType,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		ManagerDueDate:      input.ManagerDueDate,
		EmployeeAckDueDate:  input.EmployeeAckDueDate,
		TemplateAssignments: input.TemplateAssignments,
		Status:              CycleStatusPlanned,
		CreatedAt:           s.now().UTC(),
	}
	if err := s.store.CreateCycle(ctx, cycle); err != nil {
		return Cycle{}, err
	}
	return cycle, nil
}

func (s *Service) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	cycle, found, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return Cycle{}, err
	}
	if !found {
		return Cycle{}, &NotFoundError{Entity: "cycle", ID: cycleID}
	}
	return cycle, nil
}

func (s *Service) ListCycles(ctx context.Context) ([]Cycle, error) {
	return s.store.ListCycles(ctx)
}

// ActivateCycle flips planned→active and fans the cycle out into one
// assignment per (employee, template). The unique guard on (cycleId,
// templateId, employeeProfileId) makes retries and concurrent calls safe.
func (s *Service) ActivateCycle(ctx context.Context, cycleID string) (ActivationResult, error) {
	cycle, found, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return ActivationResult{}, err
	}
	if !found {
		return ActivationResult{}, &NotFoundError{Entity: "cycle", ID: cycleID}
	}

	switch cycle.Status {
	case CycleStatusPlanned:
		flipped, err := s.store.UpdateCycleStatus(ctx, cycleID, CycleStatusPlanned, CycleStatusActive)
		if err != nil {
			return ActivationResult{}, err
		}
		if !flipped {
			// A concurrent activate won the flip; continue into fan-out,
			// which is a no-op for anything it already covered.
			slog.Info("cycle already flipped by concurrent activate", "cycleId", cycleID)
		}
	case CycleStatusActive:
		// Re-running activate on an active cycle only fills fan-out gaps.
	default:
		return ActivationResult{}, &StateError{Entity: "cycle", Current: cycle.Status, Attempted: EventStart}
	}

	return s.fanOut(ctx, cycle)
}

func (s *Service) fanOut(ctx context.Context, cycle Cycle) (ActivationResult, error) {
	result := ActivationResult{CycleID: cycle.ID}
	assignedAt := s.now().UTC()

	for _, ta := range cycle.TemplateAssignments {
		employees, err := s.listEmployeesWithRetry(ctx, ta.DepartmentIDs)
		if err != nil {
			return result, &UpstreamError{Op: "listEmployeesInDepartments", Err: err}
		}

		for _, employee := range employees {
			managerID := employee.ManagerID
			if managerID == "" {
				manager, found, err := s.dir.ManagerOf(ctx, employee.EmployeeID)
				if err != nil {
					return result, &UpstreamError{Op: "getManagerOf", Err: err}
				}
				if !found {
					slog.Warn("employee has no manager, skipping assignment",
						"cycleId", cycle.ID, "employeeId", employee.EmployeeID)
					result.EmployeesSkipped++
					continue
				}
				managerID = manager.EmployeeID
			}

			assignment := Assignment{
				ID:                uuid.NewString(),
				CycleID:           cycle.ID,
				TemplateID:        ta.TemplateID,
				EmployeeProfileID: employee.EmployeeID,
				ManagerProfileID:  managerID,
				DepartmentID:      employee.DepartmentID,
				Status:            AssignmentStatusNotStarted,
				AssignedAt:        assignedAt,
				DueDate:           cycle.ManagerDueDate,
			}
			created, err := s.store.CreateAssignment(ctx, assignment)
			if err != nil {
				return result, err
			}
			if created {
				result.AssignmentsCreated++
				s.fireHooks(ctx, assignment, EventAssigned)
			}
		}
	}
	return result, nil
}

func (s *Service) listEmployeesWithRetry(ctx context.Context, departmentIDs []string) ([]directory.EmployeeRef, error) {
	backoff := 200 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		employees, err := s.dir.ListEmployeesInDepartments(ctx, departmentIDs)
		if err == nil {
			return employees, nil
		}
		lastErr = err
		slog.Warn("directory lookup failed", "attempt", attempt+1, "err", err)
	}
	return nil, lastErr
}

// CloseCycle stops new submissions. Assignment statuses are untouched; the
// lifecycle checks the cycle status on start and submit.
func (s *Service) CloseCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.updateCycleStatus(ctx, cycleID, CycleStatusActive, CycleStatusClosed, "close")
}

// ArchiveCycle is terminal and read-only.
func (s *Service) ArchiveCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.updateCycleStatus(ctx, cycleID, CycleStatusClosed, CycleStatusArchived, "archive")
}

func (s *Service) updateCycleStatus(ctx context.Context, cycleID, from, to, attempted string) (Cycle, error) {
	cycle, found, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return Cycle{}, err
	}
	if !found {
		return Cycle{}, &NotFoundError{Entity: "cycle", ID: cycleID}
	}
	if cycle.Status != from {
		return Cycle{}, &StateError{Entity: "cycle", Current: cycle.Status, Attempted: attempted}
	}

	flipped, err := s.store.UpdateCycleStatus(ctx, cycleID, from, to)
	if err != nil {
		return Cycle{}, err
	}
	if !flipped {
		return Cycle{}, &ConflictError{Message: fmt.Sprintf("cycle %s was modified concurrently", cycleID)}
	}
	cycle.Status = to
	return cycle, nil
}
