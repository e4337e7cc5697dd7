package models

// IndustryCluster represents one business industry category and its
// precomputed demographic cluster assignment. Read-only to this service.
type IndustryCluster struct {
	IndustryName     string  `json:"industry_name"`
	AvgAgeScore      float64 `json:"avg_age_score"`
	AvgFemaleRatio   float64 `json:"avg_female_ratio"`
	DataCount        int     `json:"data_count"`
	ClusterLabel     int     `json:"cluster_label"`
	IndustryTypeCode *string `json:"industry_type_code"`
}

// IndustryMatch is the subset of industry cluster data denormalized onto a
// store at registration time.
type IndustryMatch struct {
	ClusterLabel     int     `json:"industry_cluster_label"`
	IndustryTypeCode *string `json:"industry_cluster_type"`
}
