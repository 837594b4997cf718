package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/schedule"
)

const uniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	var specialty *string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&specialty,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	p.Specialty = specialty
	return &p, nil
}

func dateToTime(d schedule.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Interface methods

func (r *PgRepository) GetProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM providers
		WHERE id = $1
	`, id)
	return scanProvider(row)
}

func (r *PgRepository) ListBlocks(ctx context.Context, providerID uuid.UUID) ([]schedule.AvailabilityBlock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, provider_id, block_date, start_time, end_time, deviation_minutes
		FROM availability_blocks
		WHERE provider_id = $1
		ORDER BY block_date, start_time
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []schedule.AvailabilityBlock
	for rows.Next() {
		var b schedule.AvailabilityBlock
		var id uuid.UUID
		var blockDate time.Time

		if err := rows.Scan(&id, &b.ProviderID, &blockDate, &b.StartTime, &b.EndTime, &b.DeviationMinutes); err != nil {
			return nil, err
		}
		b.ID = id.String()
		b.Date = schedule.DateOf(blockDate)
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blocks, nil
}

func (r *PgRepository) ListBookedEntries(ctx context.Context, providerID uuid.UUID) ([]schedule.BookedEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slot_date, slot_time
		FROM bookings
		WHERE provider_id = $1
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []schedule.BookedEntry
	for rows.Next() {
		var slotDate time.Time
		var slotTime string

		if err := rows.Scan(&slotDate, &slotTime); err != nil {
			return nil, err
		}
		entries = append(entries, schedule.BookedEntry{
			Date: schedule.DateOf(slotDate),
			Time: slotTime,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *PgRepository) CreateBooking(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (id, provider_id, slot_date, slot_time, patient_name, patient_email, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING created_at
	`, b.ID, b.ProviderID, dateToTime(b.Date), b.Time, b.PatientName, b.PatientEmail, b.Notes)

	if err := row.Scan(&b.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

func (r *PgRepository) DeleteBlocksBefore(ctx context.Context, d schedule.Date) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM availability_blocks
		WHERE block_date < $1
	`, dateToTime(d))
	if err != nil {
		return 0, fmt.Errorf("delete past blocks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) DeleteBookingsBefore(ctx context.Context, d schedule.Date) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM bookings
		WHERE slot_date < $1
	`, dateToTime(d))
	if err != nil {
		return 0, fmt.Errorf("delete past bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}
