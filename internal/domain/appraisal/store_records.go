package appraisal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (s *Store) GetRecord(ctx context.Context, recordID string) (Record, bool, error) {
	return s.scanRecord(ctx, `
    SELECT id, assignment_id, ratings_json, total_score, COALESCE(overall_rating_label, ''), COALESCE(manager_summary, ''), hr_published_at, created_at
    FROM appraisal_records
    WHERE id = $1
  `, recordID)
}

func (s *Store) RecordByAssignment(ctx context.Context, assignmentID string) (Record, bool, error) {
	return s.scanRecord(ctx, `
    SELECT r.id, r.assignment_id, r.ratings_json, r.total_score, COALESCE(r.overall_rating_label, ''), COALESCE(r.manager_summary, ''), r.hr_published_at, r.created_at
    FROM appraisal_records r
    JOIN appraisal_assignments a ON a.latest_appraisal_id = r.id
    WHERE a.id = $1
  `, assignmentID)
}

func (s *Store) scanRecord(ctx context.Context, query, arg string) (Record, bool, error) {
	var rec Record
	var ratingsJSON []byte
	err := s.DB.QueryRow(ctx, query, arg).Scan(&rec.ID, &rec.AssignmentID, &ratingsJSON, &rec.TotalScore, &rec.OverallRatingLabel, &rec.ManagerSummary, &rec.HRPublishedAt, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	if err := json.Unmarshal(ratingsJSON, &rec.Ratings); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *Store) CreateDispute(ctx context.Context, dispute Dispute) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO appraisal_disputes (id, appraisal_id, assignment_id, cycle_id, raised_by_employee_id, reason, details, disputed_rating_key, status, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, dispute.ID, dispute.AppraisalID, dispute.AssignmentID, dispute.CycleID, dispute.RaisedByEmployeeID, dispute.Reason, dispute.Details, dispute.DisputedRatingKey, dispute.Status, dispute.CreatedAt)

	// The partial unique index on open disputes is the authority; a racer
	// that passed the pre-check loses here.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &ConflictError{Message: "an open dispute already exists for this record"}
	}
	return err
}

func (s *Store) OpenDisputeExists(ctx context.Context, appraisalID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM appraisal_disputes WHERE appraisal_id = $1 AND status = $2
  `, appraisalID, DisputeStatusOpen).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListDisputes(ctx context.Context, cycleID string) ([]Dispute, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, appraisal_id, assignment_id, cycle_id, raised_by_employee_id, reason, COALESCE(details, ''), COALESCE(disputed_rating_key, ''), status, created_at
    FROM appraisal_disputes
    WHERE cycle_id = $1
    ORDER BY created_at DESC
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []Dispute
	for rows.Next() {
		var d Dispute
		if err := rows.Scan(&d.ID, &d.AppraisalID, &d.AssignmentID, &d.CycleID, &d.RaisedByEmployeeID, &d.Reason, &d.Details, &d.DisputedRatingKey, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}
	return disputes, rows.Err()
}
