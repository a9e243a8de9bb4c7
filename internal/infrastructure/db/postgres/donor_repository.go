package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blooddb/donation-api/internal/core/domain"
)

const donorColumns = `donor_id, user_id, name, age, gender, blood_group, city, phone, created_at`

type DonorRepository struct {
	db DBTX
}

func NewDonorRepository(db DBTX) *DonorRepository {
	return &DonorRepository{db: db}
}

func (r *DonorRepository) Create(ctx context.Context, d *domain.Donor) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO donors (user_id, name, age, gender, blood_group, city, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING donor_id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		d.UserID, d.Name, d.Age, d.Gender, d.BloodGroup, d.City, d.Phone, d.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	d.ID = id
	return id, nil
}

func (r *DonorRepository) FindByID(ctx context.Context, donorID, userID int64) (*domain.Donor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + donorColumns + ` FROM donors WHERE donor_id = $1 AND user_id = $2`

	d, err := scanDonor(r.db.QueryRowContext(ctx, query, donorID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *DonorRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Donor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + donorColumns + ` FROM donors WHERE user_id = $1 ORDER BY donor_id DESC`
	return r.list(ctx, query, userID)
}

func (r *DonorRepository) Update(ctx context.Context, d *domain.Donor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE donors SET name = $1, age = $2, gender = $3, blood_group = $4, city = $5, phone = $6
		WHERE donor_id = $7 AND user_id = $8`

	res, err := r.db.ExecContext(ctx, query,
		d.Name, d.Age, d.Gender, d.BloodGroup, d.City, d.Phone, d.ID, d.UserID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res, "update donor")
}

func (r *DonorRepository) Delete(ctx context.Context, donorID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM donors WHERE donor_id = $1 AND user_id = $2`, donorID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res, "delete donor")
}

func (r *DonorRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM donors WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Search matches the blood group exactly and the city as a case-insensitive
// literal substring. Empty filter fields are ignored.
func (r *DonorRepository) Search(ctx context.Context, filter domain.DonorSearch) ([]*domain.Donor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + donorColumns + ` FROM donors
		WHERE ($1 = '' OR blood_group = $1)
		AND ($2 = '' OR city ILIKE '%' || $2 || '%' ESCAPE '\')
		ORDER BY donor_id DESC`
	return r.list(ctx, query, filter.BloodGroup, escapeLike(filter.City))
}

func (r *DonorRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Donor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	donors := make([]*domain.Donor, 0)
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		donors = append(donors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return donors, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDonor(s scanner) (*domain.Donor, error) {
	var d domain.Donor
	err := s.Scan(&d.ID, &d.UserID, &d.Name, &d.Age, &d.Gender, &d.BloodGroup, &d.City, &d.Phone, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
