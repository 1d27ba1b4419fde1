package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"laundry_backend/internal/resolver"
	"laundry_backend/platform/apperr"
)

const addressNotFoundMessage = "address not found"

const addressColumns = `id, user_id, label, place_type, building, estate, road, area, county,
	full_address, lat, lng, place_id, building_name, floor_number, door_number,
	additional_info, contact_phone, created_at, updated_at`

// Repo implements the address book repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new address repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create stores a confirmed address.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, c resolver.AddressComponents) (Address, error) {
	query := `
		INSERT INTO addresses (user_id, label, place_type, building, estate, road, area, county,
			full_address, lat, lng, place_id, building_name, floor_number, door_number,
			additional_info, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + addressColumns

	label := c.Label
	if label == "" {
		label = resolver.LabelOther
	}

	row := r.pool.QueryRow(ctx, query,
		userID, string(label), string(c.PlaceType),
		nullable(c.Building), nullable(c.Estate), nullable(c.Road), nullable(c.Area), nullable(c.County),
		c.FullAddress, c.Lat, c.Lng, nullable(c.PlaceID),
		nullable(c.BuildingName), c.FloorNumber, c.DoorNumber,
		nullable(c.AdditionalInfo), nullable(c.ContactPhone),
	)

	addr, err := scanAddress(row)
	if err != nil {
		return Address{}, fmt.Errorf("create address: %w", err)
	}
	return addr, nil
}

// ListByUser returns the user's addresses, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	items := make([]Address, 0)
	for rows.Next() {
		addr, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		items = append(items, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return items, nil
}

// GetByID returns one of the user's addresses.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	addr, err := scanAddress(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Address{}, apperr.NotFound(addressNotFoundMessage)
		}
		return Address{}, fmt.Errorf("get address by id: %w", err)
	}
	return addr, nil
}

// Delete removes one of the user's addresses.
func (r *Repo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(addressNotFoundMessage)
	}
	return nil
}

func scanAddress(row pgx.Row) (Address, error) {
	var (
		addr                                      Address
		label, placeType                          string
		building, estate, road, area, county      *string
		placeID, buildingName, info, contactPhone *string
	)

	c := &addr.Components
	if err := row.Scan(
		&addr.ID, &addr.UserID, &label, &placeType,
		&building, &estate, &road, &area, &county,
		&c.FullAddress, &c.Lat, &c.Lng, &placeID, &buildingName,
		&c.FloorNumber, &c.DoorNumber, &info, &contactPhone,
		&addr.CreatedAt, &addr.UpdatedAt,
	); err != nil {
		return Address{}, err
	}

	c.Label = resolver.Label(label)
	c.PlaceType = resolver.PlaceType(placeType)
	c.Building = deref(building)
	c.Estate = deref(estate)
	c.Road = deref(road)
	c.Area = deref(area)
	c.County = deref(county)
	c.PlaceID = deref(placeID)
	c.BuildingName = deref(buildingName)
	c.AdditionalInfo = deref(info)
	c.ContactPhone = deref(contactPhone)
	return addr, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
