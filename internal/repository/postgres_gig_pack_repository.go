package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresGigPackRepository implements GigPackRepository using PostgreSQL
type PostgresGigPackRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGigPackRepository creates a new PostgresGigPackRepository
func NewPostgresGigPackRepository(pool *pgxpool.Pool) *PostgresGigPackRepository {
	return &PostgresGigPackRepository{pool: pool}
}

// gigPackColumns uses COALESCE so nullable columns scan into plain strings
const gigPackColumns = `id, owner_id, band_id, title,
	COALESCE(band_name, '') as band_name,
	COALESCE(gig_type, '') as gig_type,
	date,
	COALESCE(call_time, '') as call_time,
	COALESCE(on_stage_time, '') as on_stage_time,
	COALESCE(venue_name, '') as venue_name,
	COALESCE(venue_address, '') as venue_address,
	COALESCE(venue_maps_url, '') as venue_maps_url,
	COALESCE(dress_code, '') as dress_code,
	COALESCE(lineup, '[]'::jsonb) as lineup,
	COALESCE(setlist, '[]'::jsonb) as setlist,
	COALESCE(schedule, '[]'::jsonb) as schedule,
	COALESCE(parking_notes, '') as parking_notes,
	COALESCE(payment_notes, '') as payment_notes,
	COALESCE(notes, '') as notes,
	COALESCE(poster_image_url, '') as poster_image_url,
	public_slug, is_public, created_at, updated_at, deleted_at`

func scanGigPack(row pgx.Row) (*domain.GigPack, error) {
	pack := &domain.GigPack{}
	var gigType string
	var lineupJSON, setlistJSON, scheduleJSON []byte

	err := row.Scan(
		&pack.ID,
		&pack.OwnerID,
		&pack.BandID,
		&pack.Title,
		&pack.BandName,
		&gigType,
		&pack.Date,
		&pack.CallTime,
		&pack.OnStageTime,
		&pack.VenueName,
		&pack.VenueAddress,
		&pack.VenueMapsURL,
		&pack.DressCode,
		&lineupJSON,
		&setlistJSON,
		&scheduleJSON,
		&pack.ParkingNotes,
		&pack.PaymentNotes,
		&pack.Notes,
		&pack.PosterImageURL,
		&pack.PublicSlug,
		&pack.IsPublic,
		&pack.CreatedAt,
		&pack.UpdatedAt,
		&pack.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	pack.GigType = domain.GigType(gigType)
	if err := json.Unmarshal(lineupJSON, &pack.Lineup); err != nil {
		return nil, fmt.Errorf("decode lineup: %w", err)
	}
	if err := json.Unmarshal(setlistJSON, &pack.Setlist); err != nil {
		return nil, fmt.Errorf("decode setlist: %w", err)
	}
	if err := json.Unmarshal(scheduleJSON, &pack.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	pack.EnsureCollections()

	return pack, nil
}

type gigPackJSON struct {
	lineup, setlist, schedule []byte
}

func encodeCollections(pack *domain.GigPack) (gigPackJSON, error) {
	pack.EnsureCollections()
	var out gigPackJSON
	var err error
	if out.lineup, err = json.Marshal(pack.Lineup); err != nil {
		return out, fmt.Errorf("encode lineup: %w", err)
	}
	if out.setlist, err = json.Marshal(pack.Setlist); err != nil {
		return out, fmt.Errorf("encode setlist: %w", err)
	}
	if out.schedule, err = json.Marshal(pack.Schedule); err != nil {
		return out, fmt.Errorf("encode schedule: %w", err)
	}
	return out, nil
}

// Create creates a new gig pack
func (r *PostgresGigPackRepository) Create(ctx context.Context, pack *domain.GigPack) error {
	query := `
		INSERT INTO gig_packs (
			id, owner_id, band_id, title, band_name, gig_type, date, call_time,
			on_stage_time, venue_name, venue_address, venue_maps_url, dress_code,
			lineup, setlist, schedule, parking_notes, payment_notes, notes,
			poster_image_url, public_slug, is_public, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`

	collections, err := encodeCollections(pack)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		pack.ID,
		pack.OwnerID,
		pack.BandID,
		pack.Title,
		pack.BandName,
		string(pack.GigType),
		pack.Date,
		pack.CallTime,
		pack.OnStageTime,
		pack.VenueName,
		pack.VenueAddress,
		pack.VenueMapsURL,
		pack.DressCode,
		collections.lineup,
		collections.setlist,
		collections.schedule,
		pack.ParkingNotes,
		pack.PaymentNotes,
		pack.Notes,
		pack.PosterImageURL,
		pack.PublicSlug,
		pack.IsPublic,
		pack.CreatedAt,
		pack.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert gig pack: %w", err)
	}
	return nil
}

// GetByID retrieves a gig pack by ID
func (r *PostgresGigPackRepository) GetByID(ctx context.Context, id string) (*domain.GigPack, error) {
	query := fmt.Sprintf(`SELECT %s FROM gig_packs WHERE id = $1 AND deleted_at IS NULL`, gigPackColumns)
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves a gig pack by its public slug
func (r *PostgresGigPackRepository) GetBySlug(ctx context.Context, slug string) (*domain.GigPack, error) {
	query := fmt.Sprintf(`SELECT %s FROM gig_packs WHERE public_slug = $1 AND deleted_at IS NULL`, gigPackColumns)
	return r.getOne(ctx, query, slug)
}

func (r *PostgresGigPackRepository) getOne(ctx context.Context, query string, arg string) (*domain.GigPack, error) {
	pack, err := scanGigPack(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gig pack: %w", err)
	}
	return pack, nil
}

// List lists gig packs with filters and pagination, next gig first
func (r *PostgresGigPackRepository) List(ctx context.Context, filter *GigPackFilter, limit, offset int) ([]*domain.GigPack, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	var args []interface{}
	argIndex := 1

	if filter != nil {
		if filter.OwnerID != "" {
			conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIndex))
			args = append(args, filter.OwnerID)
			argIndex++
		}
		if filter.BandID != "" {
			conditions = append(conditions, fmt.Sprintf("band_id = $%d", argIndex))
			args = append(args, filter.BandID)
			argIndex++
		}
		if filter.GigType != "" {
			conditions = append(conditions, fmt.Sprintf("gig_type = $%d", argIndex))
			args = append(args, filter.GigType)
			argIndex++
		}
		if filter.Search != "" {
			conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR venue_name ILIKE $%d OR band_name ILIKE $%d)", argIndex, argIndex, argIndex))
			args = append(args, "%"+filter.Search+"%")
			argIndex++
		}
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM gig_packs WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count gig packs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM gig_packs
		WHERE %s
		ORDER BY date ASC NULLS LAST, created_at DESC
		LIMIT $%d OFFSET $%d
	`, gigPackColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list gig packs: %w", err)
	}
	defer rows.Close()

	packs := []*domain.GigPack{}
	for rows.Next() {
		pack, err := scanGigPack(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan gig pack: %w", err)
		}
		packs = append(packs, pack)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list gig packs: %w", err)
	}

	return packs, total, nil
}

// Update updates every editable field of a gig pack. The public slug never changes.
func (r *PostgresGigPackRepository) Update(ctx context.Context, pack *domain.GigPack) error {
	query := `
		UPDATE gig_packs SET
			band_id = $2, title = $3, band_name = $4, gig_type = $5, date = $6,
			call_time = $7, on_stage_time = $8, venue_name = $9, venue_address = $10,
			venue_maps_url = $11, dress_code = $12, lineup = $13, setlist = $14,
			schedule = $15, parking_notes = $16, payment_notes = $17, notes = $18,
			poster_image_url = $19, is_public = $20, updated_at = $21
		WHERE id = $1 AND deleted_at IS NULL
	`

	collections, err := encodeCollections(pack)
	if err != nil {
		return err
	}

	pack.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		pack.ID,
		pack.BandID,
		pack.Title,
		pack.BandName,
		string(pack.GigType),
		pack.Date,
		pack.CallTime,
		pack.OnStageTime,
		pack.VenueName,
		pack.VenueAddress,
		pack.VenueMapsURL,
		pack.DressCode,
		collections.lineup,
		collections.setlist,
		collections.schedule,
		pack.ParkingNotes,
		pack.PaymentNotes,
		pack.Notes,
		pack.PosterImageURL,
		pack.IsPublic,
		pack.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update gig pack: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSchedule replaces only the schedule of a gig pack
func (r *PostgresGigPackRepository) UpdateSchedule(ctx context.Context, id string, schedule []domain.GigScheduleItem) error {
	if schedule == nil {
		schedule = []domain.GigScheduleItem{}
	}
	scheduleJSON, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE gig_packs SET schedule = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, scheduleJSON, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft deletes a gig pack by ID
func (r *PostgresGigPackRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE gig_packs
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("delete gig pack: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SlugExists checks if a public slug is already used, deleted packs included
func (r *PostgresGigPackRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM gig_packs WHERE public_slug = $1)`, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}
