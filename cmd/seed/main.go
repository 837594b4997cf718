package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnusaraSen/clinic-appointment-scheduling/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	providerIDs, err := seedProviders(context.Background(), pool, 50)
	if err != nil {
		log.Fatalf("seed providers: %v", err)
	}
	if err := seedAvailabilityBlocks(context.Background(), pool, providerIDs, 14); err != nil {
		log.Fatalf("seed availability blocks: %v", err)
	}

	log.Println("seed complete")
}

func seedProviders(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d providers", count)

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO providers (id, name, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("providers seeded")
	return ids, nil
}

// seedAvailabilityBlocks gives every provider a morning and an afternoon block
// on each of the next `days` weekdays, with a plausible schedule deviation.
func seedAvailabilityBlocks(ctx context.Context, pool *pgxpool.Pool, providerIDs []uuid.UUID, days int) error {
	log.Printf("seeding availability blocks for %d providers over %d days", len(providerIDs), days)

	type window struct {
		start string
		end   string
	}
	windows := []window{
		{"09:00", "12:30"},
		{"2:00 PM", "5:00 PM"},
	}

	today := time.Now()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, providerID := range providerIDs {
		for day := 0; day < days; day++ {
			date := today.AddDate(0, 0, day)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}

			for _, win := range windows {
				// Most blocks run on time; the rest drift a little either way.
				deviation := 0
				if gofakeit.Number(0, 9) < 3 {
					deviation = gofakeit.Number(-20, 20)
				}

				_, err := tx.Exec(ctx, `
					INSERT INTO availability_blocks (id, provider_id, block_date, start_time, end_time, deviation_minutes, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, now(), now())
				`, uuid.New(), providerID, date.Format("2006-01-02"), win.start, win.end, deviation)
				if err != nil {
					return fmt.Errorf("insert block: %w", err)
				}
				inserted++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("availability blocks seeded: %d", inserted)
	return nil
}
