package repository

import (
	"context"
	"errors"
	"fmt"

	"district-analytics-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateLoginID reports a unique-constraint violation on users.login_id.
var ErrDuplicateLoginID = errors.New("login id already taken")

// CreateUserParams carries the fields needed to insert a user row.
type CreateUserParams struct {
	LoginID        string
	HashedPassword string
	Name           string
}

// CreateStoreParams carries the fields needed to insert a store row,
// including the denormalized district/industry match results.
type CreateStoreParams struct {
	PlaceID      *string
	Name         string
	PlaceURL     *string
	Phone        *string
	RoadAddress  *string
	IndustryName *string
	Longitude    *float64
	Latitude     *float64

	DistrictCode         *string
	DistrictName         *string
	DistrictClusterLabel *int
	DistrictClusterType  *string
	IndustryClusterLabel *int
	IndustryClusterType  *string
}

const storeColumns = `
	id,
	user_id,
	place_id,
	store_name,
	place_url,
	phone,
	road_address_name,
	industry_name,
	x,
	y,
	district_code,
	district_name,
	district_cluster_label,
	district_cluster_type,
	industry_cluster_label,
	industry_cluster_type,
	store_description,
	created_at,
	updated_at
`

func scanStore(row pgx.Row) (*models.Store, error) {
	var s models.Store
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.PlaceID,
		&s.Name,
		&s.PlaceURL,
		&s.Phone,
		&s.RoadAddress,
		&s.IndustryName,
		&s.Longitude,
		&s.Latitude,
		&s.DistrictCode,
		&s.DistrictName,
		&s.DistrictClusterLabel,
		&s.DistrictClusterType,
		&s.IndustryClusterLabel,
		&s.IndustryClusterType,
		&s.Description,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetUserByLoginID returns the user with the given login id, or nil when the
// login id is unknown.
func (r *Repository) GetUserByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	sql := `
		SELECT id, login_id, password, name, created_at
		FROM users
		WHERE login_id = $1
	`

	var u models.User
	err := r.db.QueryRow(ctx, sql, loginID).Scan(&u.ID, &u.LoginID, &u.HashedPassword, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get user by login id: %w", err)
	}
	return &u, nil
}

// GetUserByID returns the user with the given id, or nil when it is unknown.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql := `
		SELECT id, login_id, password, name, created_at
		FROM users
		WHERE id = $1
	`

	var u models.User
	err := r.db.QueryRow(ctx, sql, id).Scan(&u.ID, &u.LoginID, &u.HashedPassword, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get user by id: %w", err)
	}
	return &u, nil
}

// CreateUserWithStore inserts a user and its store within a single
// transaction. Any failure rolls back both inserts.
func (r *Repository) CreateUserWithStore(ctx context.Context, user CreateUserParams, store CreateStoreParams) (*models.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var u models.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (login_id, password, name)
		VALUES ($1, $2, $3)
		RETURNING id, login_id, password, name, created_at
	`, user.LoginID, user.HashedPassword, user.Name).Scan(&u.ID, &u.LoginID, &u.HashedPassword, &u.Name, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateLoginID
		}
		return nil, fmt.Errorf("repository: failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_stores (
			user_id, place_id, store_name, place_url, phone, road_address_name,
			industry_name, x, y,
			district_code, district_name, district_cluster_label, district_cluster_type,
			industry_cluster_label, industry_cluster_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		u.ID, store.PlaceID, store.Name, store.PlaceURL, store.Phone, store.RoadAddress,
		store.IndustryName, store.Longitude, store.Latitude,
		store.DistrictCode, store.DistrictName, store.DistrictClusterLabel, store.DistrictClusterType,
		store.IndustryClusterLabel, store.IndustryClusterType,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert store: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit registration: %w", err)
	}

	return &u, nil
}

// GetStoreByUserID returns the store owned by userID, or nil when the user
// has no store.
func (r *Repository) GetStoreByUserID(ctx context.Context, userID int64) (*models.Store, error) {
	sql := `
		SELECT ` + storeColumns + `
		FROM user_stores
		WHERE user_id = $1
	`

	s, err := scanStore(r.db.QueryRow(ctx, sql, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get store for user %d: %w", userID, err)
	}
	return s, nil
}

// GetStoreByID returns a store by primary key, or nil when it is unknown.
func (r *Repository) GetStoreByID(ctx context.Context, id int64) (*models.Store, error) {
	sql := `
		SELECT ` + storeColumns + `
		FROM user_stores
		WHERE id = $1
	`

	s, err := scanStore(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get store %d: %w", id, err)
	}
	return s, nil
}

// UpdateStore persists the mutable fields of a store.
func (r *Repository) UpdateStore(ctx context.Context, s *models.Store) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_stores
		SET store_name = $2,
			store_description = $3,
			phone = $4,
			industry_name = $5,
			industry_cluster_label = $6,
			industry_cluster_type = $7,
			updated_at = now()
		WHERE id = $1
	`, s.ID, s.Name, s.Description, s.Phone, s.IndustryName, s.IndustryClusterLabel, s.IndustryClusterType)
	if err != nil {
		return fmt.Errorf("repository: failed to update store %d: %w", s.ID, err)
	}
	return nil
}

// CountStoresInDistrict counts registered stores mapped to a district.
func (r *Repository) CountStoresInDistrict(ctx context.Context, districtCode string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_stores WHERE district_code = $1
	`, districtCode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count district stores: %w", err)
	}
	return count, nil
}

// CountStoresInDistrictByIndustry counts registered stores of one industry
// mapped to a district.
func (r *Repository) CountStoresInDistrictByIndustry(ctx context.Context, districtCode, industryName string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_stores WHERE district_code = $1 AND industry_name = $2
	`, districtCode, industryName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count industry stores: %w", err)
	}
	return count, nil
}
