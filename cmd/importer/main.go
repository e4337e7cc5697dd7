package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"district-analytics-api/internal/config"

	"github.com/jackc/pgx/v5"
)

type DistrictRecord struct {
	Code          string
	Name          string
	TotalRevenue  int64
	AvgAge        float64
	Efficiency    float64
	BusinessCount int
	ClusterLabel  int
	ClusterType   *string
	Lon           *float64
	Lat           *float64
}

type IndustryRecord struct {
	Name             string
	AvgAgeScore      float64
	AvgFemaleRatio   float64
	DataCount        int
	ClusterLabel     int
	IndustryTypeCode *string
}

func main() {
	districtsFile := flag.String("districts", "", "Path to the district clusters CSV file")
	industriesFile := flag.String("industries", "", "Path to the industry clusters CSV file")
	flag.Parse()

	if *districtsFile == "" && *industriesFile == "" {
		fmt.Println("Error: at least one of --districts or --industries is required")
		os.Exit(1)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	// Ensure tables exist
	if err := createTablesIfNotExist(conn); err != nil {
		fmt.Printf("Error creating tables: %v\n", err)
		os.Exit(1)
	}

	if *districtsFile != "" {
		if err := importDistricts(conn, *districtsFile); err != nil {
			fmt.Printf("Error importing districts: %v\n", err)
			os.Exit(1)
		}
	}

	if *industriesFile != "" {
		if err := importIndustries(conn, *industriesFile); err != nil {
			fmt.Printf("Error importing industries: %v\n", err)
			os.Exit(1)
		}
	}
}

func createTablesIfNotExist(conn *pgx.Conn) error {
	query := `
	CREATE TABLE IF NOT EXISTS district_clusters (
		district_code VARCHAR(20) PRIMARY KEY,
		district_name VARCHAR(100) NOT NULL,
		total_revenue BIGINT NOT NULL,
		avg_age DECIMAL(8,5) NOT NULL,
		efficiency DECIMAL(12,5) NOT NULL,
		business_count INTEGER NOT NULL,
		cluster_label INTEGER NOT NULL CHECK (cluster_label IN (0, 1, 2, 3)),
		cluster_type VARCHAR(10) CHECK (cluster_type IN ('red', 'orange', 'green', 'blue')),
		x DECIMAL(11,7),
		y DECIMAL(11,7),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS district_clusters_cluster_label_idx ON district_clusters (cluster_label);

	CREATE TABLE IF NOT EXISTS industry_clusters (
		industry_name VARCHAR(100) PRIMARY KEY,
		avg_age_score DECIMAL(8,5) NOT NULL,
		avg_female_ratio DECIMAL(8,5) NOT NULL,
		data_count INTEGER NOT NULL,
		cluster_label INTEGER NOT NULL CHECK (cluster_label IN (0, 1, 2, 3)),
		industry_type_code VARCHAR(10),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS industry_clusters_cluster_label_idx ON industry_clusters (cluster_label);

	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		login_id VARCHAR(50) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		name VARCHAR(50) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS user_stores (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		place_id VARCHAR(50),
		store_name VARCHAR(150) NOT NULL,
		place_url VARCHAR(255),
		phone VARCHAR(20),
		road_address_name VARCHAR(255),
		industry_name VARCHAR(100),
		x DECIMAL(11,7),
		y DECIMAL(11,7),
		district_code VARCHAR(20),
		district_name VARCHAR(100),
		district_cluster_label INTEGER,
		district_cluster_type VARCHAR(10),
		industry_cluster_label INTEGER,
		industry_cluster_type VARCHAR(10),
		store_description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	_, err := conn.Exec(context.Background(), query)
	return err
}

func importDistricts(conn *pgx.Conn, filePath string) error {
	fmt.Printf("Starting district import from file: %s\n", filePath)

	records, err := parseDistrictCSV(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	fmt.Printf("Parsed %d district records\n", len(records))

	_, err = conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"district_clusters"},
		[]string{"district_code", "district_name", "total_revenue", "avg_age", "efficiency", "business_count", "cluster_label", "cluster_type", "x", "y"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.Code, r.Name, r.TotalRevenue, r.AvgAge, r.Efficiency, r.BusinessCount, r.ClusterLabel, r.ClusterType, r.Lon, r.Lat}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy records: %w", err)
	}

	return verifyCount(conn, "district_clusters", len(records))
}

func importIndustries(conn *pgx.Conn, filePath string) error {
	fmt.Printf("Starting industry import from file: %s\n", filePath)

	records, err := parseIndustryCSV(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	fmt.Printf("Parsed %d industry records\n", len(records))

	_, err = conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"industry_clusters"},
		[]string{"industry_name", "avg_age_score", "avg_female_ratio", "data_count", "cluster_label", "industry_type_code"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.Name, r.AvgAgeScore, r.AvgFemaleRatio, r.DataCount, r.ClusterLabel, r.IndustryTypeCode}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy records: %w", err)
	}

	return verifyCount(conn, "industry_clusters", len(records))
}

func parseDistrictCSV(filePath string) ([]DistrictRecord, error) {
	rows, err := readCSV(filePath, 7)
	if err != nil {
		return nil, err
	}

	var records []DistrictRecord
	for _, row := range rows {
		revenue, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid total revenue: %s", row[2])
		}
		avgAge, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid avg age: %s", row[3])
		}
		efficiency, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid efficiency: %s", row[4])
		}
		businessCount, err := strconv.Atoi(row[5])
		if err != nil {
			return nil, fmt.Errorf("invalid business count: %s", row[5])
		}
		clusterLabel, err := strconv.Atoi(row[6])
		if err != nil {
			return nil, fmt.Errorf("invalid cluster label: %s", row[6])
		}

		record := DistrictRecord{
			Code:          row[0],
			Name:          row[1],
			TotalRevenue:  revenue,
			AvgAge:        avgAge,
			Efficiency:    efficiency,
			BusinessCount: businessCount,
			ClusterLabel:  clusterLabel,
		}

		if len(row) > 7 && row[7] != "" {
			clusterType := row[7]
			record.ClusterType = &clusterType
		}
		if len(row) > 9 && row[8] != "" && row[9] != "" {
			lon, err := strconv.ParseFloat(row[8], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid longitude: %s", row[8])
			}
			lat, err := strconv.ParseFloat(row[9], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid latitude: %s", row[9])
			}
			record.Lon = &lon
			record.Lat = &lat
		}

		records = append(records, record)
	}

	return records, nil
}

func parseIndustryCSV(filePath string) ([]IndustryRecord, error) {
	rows, err := readCSV(filePath, 5)
	if err != nil {
		return nil, err
	}

	var records []IndustryRecord
	for _, row := range rows {
		ageScore, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid avg age score: %s", row[1])
		}
		femaleRatio, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid avg female ratio: %s", row[2])
		}
		dataCount, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("invalid data count: %s", row[3])
		}
		clusterLabel, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("invalid cluster label: %s", row[4])
		}

		record := IndustryRecord{
			Name:           row[0],
			AvgAgeScore:    ageScore,
			AvgFemaleRatio: femaleRatio,
			DataCount:      dataCount,
			ClusterLabel:   clusterLabel,
		}
		if len(row) > 5 && row[5] != "" {
			typeCode := row[5]
			record.IndustryTypeCode = &typeCode
		}

		records = append(records, record)
	}

	return records, nil
}

func readCSV(filePath string, minColumns int) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(row) < minColumns {
			return nil, fmt.Errorf("invalid record length: %d, expected at least %d columns", len(row), minColumns)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func verifyCount(conn *pgx.Conn, table string, expected int) error {
	var count int
	err := conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count != expected {
		return fmt.Errorf("record count mismatch in %s: expected %d, got %d", table, expected, count)
	}

	fmt.Printf("Successfully imported %d records into %s\n", expected, table)
	return nil
}
