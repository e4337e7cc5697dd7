package service

import (
	"context"
	"testing"

	"district-analytics-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIndustryRepository is a mock implementation of the IndustryRepository interface
type MockIndustryRepository struct {
	mock.Mock
}

func (m *MockIndustryRepository) GetIndustryByName(ctx context.Context, name string) (*models.IndustryCluster, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*models.IndustryCluster), args.Error(1)
}

func (m *MockIndustryRepository) SearchIndustriesByName(ctx context.Context, fragment string, limit int) ([]models.IndustryCluster, error) {
	args := m.Called(ctx, fragment, limit)
	return args.Get(0).([]models.IndustryCluster), args.Error(1)
}

func TestIndustryService_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		mockRepo := new(MockIndustryRepository)
		service := NewIndustryService(mockRepo)
		mockRepo.On("GetIndustryByName", mock.Anything, "카페").Return(&models.IndustryCluster{
			IndustryName:     "카페",
			ClusterLabel:     0,
			IndustryTypeCode: sptr("CAFE"),
		}, nil)

		match, err := service.Lookup(ctx, "카페")
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, 0, match.ClusterLabel)
		assert.Equal(t, "CAFE", *match.IndustryTypeCode)
	})

	t.Run("no normalization is applied", func(t *testing.T) {
		mockRepo := new(MockIndustryRepository)
		service := NewIndustryService(mockRepo)
		mockRepo.On("GetIndustryByName", mock.Anything, "카페 ").Return((*models.IndustryCluster)(nil), nil)

		match, err := service.Lookup(ctx, "카페 ")
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(MockIndustryRepository)
		service := NewIndustryService(mockRepo)
		mockRepo.On("GetIndustryByName", mock.Anything, "카페").Return((*models.IndustryCluster)(nil), assert.AnError)

		_, err := service.Lookup(ctx, "카페")
		assert.Error(t, err)
	})
}

func TestIndustryService_SearchSimilar(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockIndustryRepository)
	service := NewIndustryService(mockRepo)
	mockRepo.On("SearchIndustriesByName", mock.Anything, "카페", 5).Return([]models.IndustryCluster{
		{IndustryName: "카페", ClusterLabel: 0},
		{IndustryName: "북카페", ClusterLabel: 0},
	}, nil)

	industries, err := service.SearchSimilar(ctx, "카페")
	require.NoError(t, err)
	assert.Len(t, industries, 2)
	mockRepo.AssertExpectations(t)
}
