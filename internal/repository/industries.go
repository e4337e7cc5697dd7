package repository

import (
	"context"
	"errors"
	"fmt"

	"district-analytics-api/internal/models"

	"github.com/jackc/pgx/v5"
)

const industryColumns = `
	industry_name,
	avg_age_score,
	avg_female_ratio,
	data_count,
	cluster_label,
	industry_type_code
`

func scanIndustry(row pgx.Row) (*models.IndustryCluster, error) {
	var ic models.IndustryCluster
	err := row.Scan(
		&ic.IndustryName,
		&ic.AvgAgeScore,
		&ic.AvgFemaleRatio,
		&ic.DataCount,
		&ic.ClusterLabel,
		&ic.IndustryTypeCode,
	)
	if err != nil {
		return nil, err
	}
	return &ic, nil
}

// GetIndustryByName resolves an industry name by exact match, returning nil
// when no row exists. No normalization is applied to the name.
func (r *Repository) GetIndustryByName(ctx context.Context, name string) (*models.IndustryCluster, error) {
	sql := `
		SELECT ` + industryColumns + `
		FROM industry_clusters
		WHERE industry_name = $1
	`

	ic, err := scanIndustry(r.db.QueryRow(ctx, sql, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to get industry %q: %w", name, err)
	}
	return ic, nil
}

// ListIndustries returns the full industry cluster table in name order.
func (r *Repository) ListIndustries(ctx context.Context) ([]models.IndustryCluster, error) {
	sql := `
		SELECT ` + industryColumns + `
		FROM industry_clusters
		ORDER BY industry_name
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list industries: %w", err)
	}
	defer rows.Close()

	var industries []models.IndustryCluster
	for rows.Next() {
		ic, err := scanIndustry(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan industry: %w", err)
		}
		industries = append(industries, *ic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return industries, nil
}

// SearchIndustriesByName performs a substring search over industry names.
// Used for diagnostics only.
func (r *Repository) SearchIndustriesByName(ctx context.Context, fragment string, limit int) ([]models.IndustryCluster, error) {
	sql := `
		SELECT ` + industryColumns + `
		FROM industry_clusters
		WHERE industry_name LIKE '%' || $1 || '%'
		ORDER BY industry_name
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sql, fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to search industries: %w", err)
	}
	defer rows.Close()

	var industries []models.IndustryCluster
	for rows.Next() {
		ic, err := scanIndustry(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan industry: %w", err)
		}
		industries = append(industries, *ic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return industries, nil
}
