package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBandRepository implements BandRepository using PostgreSQL
type PostgresBandRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBandRepository creates a new PostgresBandRepository
func NewPostgresBandRepository(pool *pgxpool.Pool) *PostgresBandRepository {
	return &PostgresBandRepository{pool: pool}
}

const bandColumns = `id, owner_id, name,
	COALESCE(description, '') as description,
	COALESCE(logo_url, '') as logo_url,
	COALESCE(hero_image_url, '') as hero_image_url,
	created_at, updated_at`

func scanBand(row pgx.Row) (*domain.Band, error) {
	band := &domain.Band{}
	err := row.Scan(
		&band.ID,
		&band.OwnerID,
		&band.Name,
		&band.Description,
		&band.LogoURL,
		&band.HeroImageURL,
		&band.CreatedAt,
		&band.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return band, nil
}

// Create creates a new band
func (r *PostgresBandRepository) Create(ctx context.Context, band *domain.Band) error {
	query := `
		INSERT INTO bands (id, owner_id, name, description, logo_url, hero_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		band.ID,
		band.OwnerID,
		band.Name,
		band.Description,
		band.LogoURL,
		band.HeroImageURL,
		band.CreatedAt,
		band.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert band: %w", err)
	}
	return nil
}

// GetByID retrieves a band by ID
func (r *PostgresBandRepository) GetByID(ctx context.Context, id string) (*domain.Band, error) {
	query := fmt.Sprintf(`SELECT %s FROM bands WHERE id = $1`, bandColumns)
	band, err := scanBand(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get band: %w", err)
	}
	return band, nil
}

// ListByOwner lists an owner's bands, newest first
func (r *PostgresBandRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Band, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bands WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bands: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bands
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, bandColumns)

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list bands: %w", err)
	}
	defer rows.Close()

	bands := []*domain.Band{}
	for rows.Next() {
		band, err := scanBand(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan band: %w", err)
		}
		bands = append(bands, band)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bands: %w", err)
	}

	return bands, total, nil
}

// Update updates a band
func (r *PostgresBandRepository) Update(ctx context.Context, band *domain.Band) error {
	query := `
		UPDATE bands SET
			name = $2, description = $3, logo_url = $4, hero_image_url = $5, updated_at = $6
		WHERE id = $1
	`
	band.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		band.ID,
		band.Name,
		band.Description,
		band.LogoURL,
		band.HeroImageURL,
		band.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update band: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a band by ID. Gig packs keep their copied band name and
// lose the reference.
func (r *PostgresBandRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM bands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete band: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
