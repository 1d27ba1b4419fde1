// Command address-backfill re-resolves saved addresses that have no estate,
// typically after the gazetteer was extended. Only the resolver-owned
// location fields are filled; user-entered values are never touched.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundry_backend/internal/gazetteer"
	"laundry_backend/internal/geocode"
	"laundry_backend/internal/resolver"
	"laundry_backend/platform/apperr"
	"laundry_backend/platform/config"
	"laundry_backend/platform/db"
	"laundry_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type savedAddress struct {
	id  uuid.UUID
	lat float64
	lng float64
}

// pageCursor is the (created_at, id) of the last row seen.
type pageCursor struct {
	createdAt time.Time
	id        uuid.UUID
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if cfg.GetDatabaseURL() == "" {
		panic("DATABASE_URL is required")
	}

	log := logger.New(cfg.Env)
	log.Info("starting address estate backfill")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	store, err := gazetteer.NewStore(cfg.GetGazetteerPath(), log)
	if err != nil {
		log.Error("failed to load gazetteer", "error", err)
		panic("failed to load gazetteer: " + err.Error())
	}
	svc := resolver.NewService(geocode.New(cfg, log), store, log)

	const batchSize = 25
	var cursor pageCursor
	for {
		batch, next, err := listAddressesMissingEstate(ctx, pool, cursor, batchSize)
		if err != nil {
			log.Error("failed to list addresses", "error", err)
			return
		}
		if len(batch) == 0 {
			log.Info("no addresses left to backfill")
			return
		}
		cursor = next

		for _, addr := range batch {
			if ctx.Err() != nil {
				log.Info("backfill interrupted")
				return
			}

			record, err := svc.ResolveFromCoordinates(ctx, addr.lat, addr.lng)
			if apperr.Retryable(err) {
				log.Warn("resolve failed, retrying", "addressId", addr.id, "error", err)
				time.Sleep(2 * time.Second)
				record, err = svc.ResolveFromCoordinates(ctx, addr.lat, addr.lng)
			}
			if apperr.Is(err, apperr.KindUnavailable) {
				log.Error("address lookup unavailable, stopping", "error", err)
				return
			}
			if err != nil {
				log.Error("resolve failed", "addressId", addr.id, "error", err)
				continue
			}
			if record == nil || record.Estate == "" {
				log.Info("no estate found", "addressId", addr.id)
				continue
			}

			if err := updateResolvedFields(ctx, pool, addr.id, record); err != nil {
				log.Error("failed to update address", "addressId", addr.id, "error", err)
				continue
			}
			log.Info("address backfilled", "addressId", addr.id, "estate", record.Estate)
			time.Sleep(200 * time.Millisecond)
		}
	}
}

func listAddressesMissingEstate(ctx context.Context, pool *pgxpool.Pool, after pageCursor, limit int) ([]savedAddress, pageCursor, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, lat, lng, created_at
		FROM addresses
		WHERE estate IS NULL
		  AND (created_at, id) > ($1, $2)
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`, after.createdAt, after.id, limit)
	if err != nil {
		return nil, after, err
	}
	defer rows.Close()

	items := make([]savedAddress, 0, limit)
	last := after
	for rows.Next() {
		var a savedAddress
		if err := rows.Scan(&a.id, &a.lat, &a.lng, &last.createdAt); err != nil {
			return nil, after, err
		}
		last.id = a.id
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, after, rows.Err()
	}

	return items, last, nil
}

// updateResolvedFields fills location fields that are still empty.
func updateResolvedFields(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, r *resolver.AddressComponents) error {
	_, err := pool.Exec(ctx, `
		UPDATE addresses
		SET estate = $2,
			building = COALESCE(building, NULLIF($3, '')),
			road = COALESCE(road, NULLIF($4, '')),
			area = COALESCE(area, NULLIF($5, '')),
			county = COALESCE(county, NULLIF($6, '')),
			updated_at = now()
		WHERE id = $1 AND estate IS NULL
	`, id, r.Estate, r.Building, r.Road, r.Area, r.County)
	return err
}
