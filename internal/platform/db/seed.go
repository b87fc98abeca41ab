package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"appraisal/internal/domain/auth"
)

// Seed creates a small directory (two departments, a manager chain) and one
// user per role so the engine can be exercised locally. Idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	engineeringID, err := ensureDepartment(ctx, pool, "Engineering")
	if err != nil {
		return err
	}
	salesID, err := ensureDepartment(ctx, pool, "Sales")
	if err != nil {
		return err
	}

	managerID, err := ensureEmployee(ctx, pool, "Morgan Lead", "morgan.lead@example.com", engineeringID, "")
	if err != nil {
		return err
	}
	if _, err := ensureEmployee(ctx, pool, "Alex Dev", "alex.dev@example.com", engineeringID, managerID); err != nil {
		return err
	}
	if _, err := ensureEmployee(ctx, pool, "Sam Dev", "sam.dev@example.com", engineeringID, managerID); err != nil {
		return err
	}
	if _, err := ensureEmployee(ctx, pool, "Riley Sales", "riley.sales@example.com", salesID, managerID); err != nil {
		return err
	}
	hrID, err := ensureEmployee(ctx, pool, "Jamie HR", "jamie.hr@example.com", salesID, "")
	if err != nil {
		return err
	}

	if err := ensureUser(ctx, pool, "jamie.hr@example.com", "hr-demo-password", hrID, "hr"); err != nil {
		return err
	}
	if err := ensureUser(ctx, pool, "morgan.lead@example.com", "manager-demo-password", managerID, "manager"); err != nil {
		return err
	}
	return nil
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	err = pool.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id)
	return id, err
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, fullName, email, departmentID, managerID string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO employees (full_name, email, department_id, manager_id, is_active)
    VALUES ($1, $2, $3, NULLIF($4, ''), true)
    RETURNING id
  `, fullName, email, departmentID, managerID).Scan(&id)
	return id, err
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, employeeID, role string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, employee_id, role)
    VALUES ($1, $2, $3, $4)
  `, email, hash, employeeID, role)
	return err
}
