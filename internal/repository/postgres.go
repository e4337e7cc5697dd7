package repository

import (
	"context"
	"errors"
	"fmt"

	"district-analytics-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the data access layer for PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const districtColumns = `
	district_code,
	district_name,
	total_revenue,
	avg_age,
	efficiency,
	business_count,
	cluster_label,
	cluster_type,
	x,
	y
`

func scanDistrict(row pgx.Row) (*models.District, error) {
	var d models.District
	err := row.Scan(
		&d.Code,
		&d.Name,
		&d.TotalRevenue,
		&d.AvgAge,
		&d.Efficiency,
		&d.BusinessCount,
		&d.ClusterLabel,
		&d.ClusterType,
		&d.Longitude,
		&d.Latitude,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDistrictsWithCoordinates returns every district whose coordinates are
// both present, ordered by district code so that downstream distance ties
// break deterministically.
func (r *Repository) ListDistrictsWithCoordinates(ctx context.Context) ([]models.District, error) {
	sql := `
		SELECT ` + districtColumns + `
		FROM district_clusters
		WHERE x IS NOT NULL AND y IS NOT NULL
		ORDER BY district_code
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list districts: %w", err)
	}
	defer rows.Close()

	var districts []models.District
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan district: %w", err)
		}
		districts = append(districts, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return districts, nil
}

// GetDistrictByCode returns a single district, or nil when the code is unknown.
func (r *Repository) GetDistrictByCode(ctx context.Context, code string) (*models.District, error) {
	sql := `
		SELECT ` + districtColumns + `
		FROM district_clusters
		WHERE district_code = $1
	`

	d, err := scanDistrict(r.db.QueryRow(ctx, sql, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get district %q: %w", code, err)
	}
	return d, nil
}

// ListDistrictsByCluster returns the districts of one cluster label ordered
// by total revenue, highest first.
func (r *Repository) ListDistrictsByCluster(ctx context.Context, clusterLabel, limit int) ([]models.District, error) {
	sql := `
		SELECT ` + districtColumns + `
		FROM district_clusters
		WHERE cluster_label = $1
		ORDER BY total_revenue DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sql, clusterLabel, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list cluster districts: %w", err)
	}
	defer rows.Close()

	var districts []models.District
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan district: %w", err)
		}
		districts = append(districts, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return districts, nil
}
