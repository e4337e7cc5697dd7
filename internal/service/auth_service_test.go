package service

import (
	"context"
	"testing"
	"time"

	"district-analytics-api/internal/apperr"
	"district-analytics-api/internal/models"
	"district-analytics-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockAuthRepository is a mock implementation of the AuthRepository interface
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) GetUserByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	args := m.Called(ctx, loginID)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepository) CreateUserWithStore(ctx context.Context, user repository.CreateUserParams, store repository.CreateStoreParams) (*models.User, error) {
	args := m.Called(ctx, user, store)
	return args.Get(0).(*models.User), args.Error(1)
}

// MockDistrictMatcher is a mock implementation of the DistrictMatcher interface
type MockDistrictMatcher struct {
	mock.Mock
}

func (m *MockDistrictMatcher) FindNearest(ctx context.Context, lon, lat float64) (*models.DistrictMatch, error) {
	args := m.Called(ctx, lon, lat)
	return args.Get(0).(*models.DistrictMatch), args.Error(1)
}

// MockIndustryLookup is a mock implementation of the IndustryLookup interface
type MockIndustryLookup struct {
	mock.Mock
}

func (m *MockIndustryLookup) Lookup(ctx context.Context, name string) (*models.IndustryMatch, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*models.IndustryMatch), args.Error(1)
}

// MockTokenMaker is a mock implementation of the TokenMaker interface
type MockTokenMaker struct {
	mock.Mock
}

func (m *MockTokenMaker) CreateToken(userID int64, duration time.Duration) (string, error) {
	args := m.Called(userID, duration)
	return args.String(0), args.Error(1)
}

func validSignupRequest() SignupRequest {
	return SignupRequest{
		LoginID:  "storeowner1",
		Password: "hunter2hunter2",
		Name:     "김사장",
		StoreInfo: SignupStoreInfo{
			StoreName:    "달콤 카페",
			RoadAddress:  "서울 강남구 테헤란로 1",
			IndustryName: "카페",
			Longitude:    fptr(127.0276),
			Latitude:     fptr(37.4979),
		},
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate login id is rejected before any write", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		service := NewAuthService(mockRepo, new(MockDistrictMatcher), new(MockIndustryLookup), new(MockTokenMaker), time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "storeowner1").Return(&models.User{ID: 1, LoginID: "storeowner1"}, nil)

		_, err := service.Signup(ctx, validSignupRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		mockRepo.AssertNotCalled(t, "CreateUserWithStore", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("successful signup denormalizes both matches", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockDistricts := new(MockDistrictMatcher)
		mockIndustries := new(MockIndustryLookup)
		service := NewAuthService(mockRepo, mockDistricts, mockIndustries, new(MockTokenMaker), time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "storeowner1").Return((*models.User)(nil), nil)
		mockDistricts.On("FindNearest", mock.Anything, 127.0276, 37.4979).Return(&models.DistrictMatch{
			DistrictCode:   "D001",
			DistrictName:   "역삼역 상권",
			ClusterLabel:   0,
			ClusterType:    sptr("red"),
			DistanceMeters: 152.33,
		}, nil)
		mockIndustries.On("Lookup", mock.Anything, "카페").Return(&models.IndustryMatch{
			ClusterLabel:     0,
			IndustryTypeCode: sptr("CAFE"),
		}, nil)

		mockRepo.On("CreateUserWithStore", mock.Anything,
			mock.MatchedBy(func(u repository.CreateUserParams) bool {
				if u.LoginID != "storeowner1" || u.Name != "김사장" {
					return false
				}
				// The raw password must never reach the repository.
				return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("hunter2hunter2")) == nil
			}),
			mock.MatchedBy(func(s repository.CreateStoreParams) bool {
				return s.DistrictCode != nil && *s.DistrictCode == "D001" &&
					s.DistrictClusterLabel != nil && *s.DistrictClusterLabel == 0 &&
					s.IndustryClusterLabel != nil && *s.IndustryClusterLabel == 0 &&
					s.IndustryClusterType != nil && *s.IndustryClusterType == "CAFE"
			}),
		).Return(&models.User{ID: 7, LoginID: "storeowner1", Name: "김사장"}, nil)

		result, err := service.Signup(ctx, validSignupRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(7), result.ID)
		assert.Equal(t, "storeowner1", result.LoginID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("signup succeeds with no district or industry match", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockDistricts := new(MockDistrictMatcher)
		mockIndustries := new(MockIndustryLookup)
		service := NewAuthService(mockRepo, mockDistricts, mockIndustries, new(MockTokenMaker), time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "storeowner1").Return((*models.User)(nil), nil)
		mockDistricts.On("FindNearest", mock.Anything, 127.0276, 37.4979).Return((*models.DistrictMatch)(nil), nil)
		mockIndustries.On("Lookup", mock.Anything, "카페").Return((*models.IndustryMatch)(nil), nil)

		mockRepo.On("CreateUserWithStore", mock.Anything, mock.Anything,
			mock.MatchedBy(func(s repository.CreateStoreParams) bool {
				return s.DistrictCode == nil && s.DistrictName == nil &&
					s.DistrictClusterLabel == nil && s.IndustryClusterLabel == nil
			}),
		).Return(&models.User{ID: 8, LoginID: "storeowner1", Name: "김사장"}, nil)

		result, err := service.Signup(ctx, validSignupRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(8), result.ID)
	})

	t.Run("race on login id surfaces as conflict", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockDistricts := new(MockDistrictMatcher)
		mockIndustries := new(MockIndustryLookup)
		service := NewAuthService(mockRepo, mockDistricts, mockIndustries, new(MockTokenMaker), time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "storeowner1").Return((*models.User)(nil), nil)
		mockDistricts.On("FindNearest", mock.Anything, mock.Anything, mock.Anything).Return((*models.DistrictMatch)(nil), nil)
		mockIndustries.On("Lookup", mock.Anything, mock.Anything).Return((*models.IndustryMatch)(nil), nil)
		mockRepo.On("CreateUserWithStore", mock.Anything, mock.Anything, mock.Anything).Return((*models.User)(nil), repository.ErrDuplicateLoginID)

		_, err := service.Signup(ctx, validSignupRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("storage failure surfaces as one internal error", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockDistricts := new(MockDistrictMatcher)
		mockIndustries := new(MockIndustryLookup)
		service := NewAuthService(mockRepo, mockDistricts, mockIndustries, new(MockTokenMaker), time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "storeowner1").Return((*models.User)(nil), nil)
		mockDistricts.On("FindNearest", mock.Anything, mock.Anything, mock.Anything).Return((*models.DistrictMatch)(nil), nil)
		mockIndustries.On("Lookup", mock.Anything, mock.Anything).Return((*models.IndustryMatch)(nil), nil)
		mockRepo.On("CreateUserWithStore", mock.Anything, mock.Anything, mock.Anything).Return((*models.User)(nil), assert.AnError)

		_, err := service.Signup(ctx, validSignupRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
		assert.Equal(t, "internal server error", apperr.Message(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("successful login issues a token", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		mockTokens := new(MockTokenMaker)
		service := NewAuthService(mockRepo, new(MockDistrictMatcher), new(MockIndustryLookup), mockTokens, 24*time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "storeowner1").Return(&models.User{
			ID:             7,
			LoginID:        "storeowner1",
			HashedPassword: string(hashed),
		}, nil)
		mockTokens.On("CreateToken", int64(7), 24*time.Hour).Return("signed-token", nil)

		result, err := service.Login(ctx, "storeowner1", "hunter2hunter2")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", result.AccessToken)
		assert.Equal(t, "bearer", result.TokenType)
	})

	t.Run("unknown login id", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		service := NewAuthService(mockRepo, new(MockDistrictMatcher), new(MockIndustryLookup), new(MockTokenMaker), time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "ghost").Return((*models.User)(nil), nil)

		_, err := service.Login(ctx, "ghost", "whatever12345")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockAuthRepository)
		service := NewAuthService(mockRepo, new(MockDistrictMatcher), new(MockIndustryLookup), new(MockTokenMaker), time.Hour)

		mockRepo.On("GetUserByLoginID", mock.Anything, "storeowner1").Return(&models.User{
			ID:             7,
			HashedPassword: string(hashed),
		}, nil)

		_, err := service.Login(ctx, "storeowner1", "wrong-password")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})
}

func TestAuthService_CheckUsername(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockAuthRepository)
	service := NewAuthService(mockRepo, new(MockDistrictMatcher), new(MockIndustryLookup), new(MockTokenMaker), time.Hour)

	mockRepo.On("GetUserByLoginID", mock.Anything, "taken").Return(&models.User{ID: 1}, nil)
	mockRepo.On("GetUserByLoginID", mock.Anything, "fresh").Return((*models.User)(nil), nil)

	available, err := service.CheckUsername(ctx, "taken")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = service.CheckUsername(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestAuthService_VerifyBusiness(t *testing.T) {
	service := NewAuthService(new(MockAuthRepository), new(MockDistrictMatcher), new(MockIndustryLookup), new(MockTokenMaker), time.Hour)

	tests := []struct {
		name           string
		businessNumber string
		expectError    bool
	}{
		{"plain ten digits", "1234567890", false},
		{"dashed format", "123-45-67890", false},
		{"too short", "123456789", true},
		{"too long", "12345678901", true},
		{"no digits", "abc-de-fghij", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := service.VerifyBusiness(tt.businessNumber)
			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, info.BusinessName)
			}
		})
	}
}
