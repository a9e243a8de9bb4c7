package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blooddb/donation-api/internal/core/domain"
)

const requestColumns = `req_id, user_id, name, blood_group, city, reason, phone, status, created_at`

type BloodRequestRepository struct {
	db DBTX
}

func NewBloodRequestRepository(db DBTX) *BloodRequestRepository {
	return &BloodRequestRepository{db: db}
}

func (r *BloodRequestRepository) Create(ctx context.Context, br *domain.BloodRequest) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO blood_requests (user_id, name, blood_group, city, reason, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING req_id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		br.UserID, br.Name, br.BloodGroup, br.City, br.Reason, br.Phone, string(br.Status), br.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	br.ID = id
	return id, nil
}

func (r *BloodRequestRepository) FindByID(ctx context.Context, reqID, userID int64) (*domain.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + requestColumns + ` FROM blood_requests WHERE req_id = $1 AND user_id = $2`

	br, err := scanBloodRequest(r.db.QueryRowContext(ctx, query, reqID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return br, nil
}

func (r *BloodRequestRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + requestColumns + ` FROM blood_requests WHERE user_id = $1 ORDER BY req_id DESC`
	return r.list(ctx, query, userID)
}

func (r *BloodRequestRepository) Update(ctx context.Context, br *domain.BloodRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE blood_requests SET name = $1, blood_group = $2, city = $3, reason = $4, phone = $5, status = $6
		WHERE req_id = $7 AND user_id = $8`

	res, err := r.db.ExecContext(ctx, query,
		br.Name, br.BloodGroup, br.City, br.Reason, br.Phone, string(br.Status), br.ID, br.UserID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res, "update blood request")
}

func (r *BloodRequestRepository) Delete(ctx context.Context, reqID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM blood_requests WHERE req_id = $1 AND user_id = $2`, reqID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res, "delete blood request")
}

func (r *BloodRequestRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blood_requests WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *BloodRequestRepository) ListAll(ctx context.Context) ([]*domain.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.list(ctx, `SELECT `+requestColumns+` FROM blood_requests ORDER BY req_id DESC`)
}

func (r *BloodRequestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.BloodRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	requests := make([]*domain.BloodRequest, 0)
	for rows.Next() {
		br, err := scanBloodRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		requests = append(requests, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return requests, nil
}

func scanBloodRequest(s scanner) (*domain.BloodRequest, error) {
	var (
		br     domain.BloodRequest
		status string
	)
	err := s.Scan(&br.ID, &br.UserID, &br.Name, &br.BloodGroup, &br.City, &br.Reason, &br.Phone, &status, &br.CreatedAt)
	if err != nil {
		return nil, err
	}
	br.Status = domain.RequestStatus(status)
	return &br, nil
}
