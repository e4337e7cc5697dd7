package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"district-analytics-api/internal/apperr"
	"district-analytics-api/internal/models"
)

// RecommendService ranks partnership candidates for an industry by customer
// demographic similarity.
type RecommendService struct {
	repo RecommendRepository
}

// Repository interface for dependency injection
type RecommendRepository interface {
	ListIndustries(ctx context.Context) ([]models.IndustryCluster, error)
}

// NewRecommendService creates a new recommendation service
func NewRecommendService(repo RecommendRepository) *RecommendService {
	return &RecommendService{repo: repo}
}

// RecommendationItem is one ranked partnership candidate.
type RecommendationItem struct {
	IndustryName    string  `json:"industryName"`
	SimilarityScore float64 `json:"similarityScore"`
	AvgAge          float64 `json:"avgAge"`
	AvgFemaleRatio  float64 `json:"avgFemaleRatio"`
	ClusterLabel    int     `json:"clusterLabel"`
	Comment         string  `json:"comment"`
}

// RecommendationResult is the ranked recommendation list for one industry.
type RecommendationResult struct {
	UserIndustry    string               `json:"userIndustry"`
	ClusterLabel    int                  `json:"clusterLabel"`
	ClusterName     string               `json:"clusterName"`
	Recommendations []RecommendationItem `json:"recommendations"`
}

var industryClusterNames = map[int]string{
	0: "☕️ 2030 여성 타겟 (카페/뷰티형)",
	1: "🍺 4050 남성 타겟 (회식/식사형)",
	2: "🛍️ 4050 여성 타겟 (쇼핑/생활형)",
	3: "🎮 2030 남성 타겟 (엔터/오락형)",
}

func clusterDisplayName(label int) string {
	if name, ok := industryClusterNames[label]; ok {
		return name
	}
	return fmt.Sprintf("%d번 그룹", label)
}

// Recommend ranks the industries sharing targetIndustry's cluster by inverse
// Euclidean distance in standardized (age score, female ratio) space and
// returns the top n. Mean and standard deviation are taken over the whole
// industry population, not just the target's cluster. A cluster with no
// peers yields an empty list, not an error.
func (s *RecommendService) Recommend(ctx context.Context, targetIndustry string, topN int) (*RecommendationResult, error) {
	industries, err := s.repo.ListIndustries(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load industries: %w", err)
	}
	if len(industries) == 0 {
		return nil, apperr.Internal("industry cluster data is empty", nil)
	}

	targetIdx := -1
	for i := range industries {
		if industries[i].IndustryName == targetIndustry {
			targetIdx = i
			break
		}
	}
	if targetIdx == -1 {
		return nil, apperr.NotFound(fmt.Sprintf("industry %q not found", targetIndustry))
	}

	ageMean, ageStd := meanStd(industries, func(ic *models.IndustryCluster) float64 { return ic.AvgAgeScore })
	femaleMean, femaleStd := meanStd(industries, func(ic *models.IndustryCluster) float64 { return ic.AvgFemaleRatio })

	scaledAge := make([]float64, len(industries))
	scaledFemale := make([]float64, len(industries))
	for i := range industries {
		scaledAge[i] = (industries[i].AvgAgeScore - ageMean) / ageStd
		scaledFemale[i] = (industries[i].AvgFemaleRatio - femaleMean) / femaleStd
	}

	target := &industries[targetIdx]
	items := make([]RecommendationItem, 0)

	for i := range industries {
		candidate := &industries[i]
		if i == targetIdx || candidate.ClusterLabel != target.ClusterLabel {
			continue
		}

		dAge := scaledAge[targetIdx] - scaledAge[i]
		dFemale := scaledFemale[targetIdx] - scaledFemale[i]
		distance := math.Sqrt(dAge*dAge + dFemale*dFemale)

		// Not a probability: clamped at zero below, reaches 100 only for
		// identical standardized vectors.
		similarity := math.Max(0, (1-distance)*100)

		comment := fmt.Sprintf(
			"%s은(는) %s 고객 성향과 유사하여 협업 가능성이 높습니다. 평균 연령 %.1f세, 여성 비중 %.0f%%",
			candidate.IndustryName,
			clusterDisplayName(candidate.ClusterLabel),
			candidate.AvgAgeScore,
			candidate.AvgFemaleRatio*100,
		)

		items = append(items, RecommendationItem{
			IndustryName:    candidate.IndustryName,
			SimilarityScore: math.Round(similarity*10) / 10,
			AvgAge:          candidate.AvgAgeScore,
			AvgFemaleRatio:  candidate.AvgFemaleRatio,
			ClusterLabel:    candidate.ClusterLabel,
			Comment:         comment,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SimilarityScore > items[j].SimilarityScore
	})
	if len(items) > topN {
		items = items[:topN]
	}

	return &RecommendationResult{
		UserIndustry:    targetIndustry,
		ClusterLabel:    target.ClusterLabel,
		ClusterName:     clusterDisplayName(target.ClusterLabel),
		Recommendations: items,
	}, nil
}

// meanStd returns the population mean and standard deviation of one feature.
// A zero standard deviation is substituted with 1.0 so that standardization
// never divides by zero.
func meanStd(industries []models.IndustryCluster, feature func(*models.IndustryCluster) float64) (float64, float64) {
	n := float64(len(industries))

	var sum float64
	for i := range industries {
		sum += feature(&industries[i])
	}
	mean := sum / n

	var sumSq float64
	for i := range industries {
		d := feature(&industries[i]) - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / n)
	if std == 0 {
		std = 1.0
	}

	return mean, std
}
