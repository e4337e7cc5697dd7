package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"district-analytics-api/internal/apperr"
	"district-analytics-api/internal/models"
	"district-analytics-api/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService orchestrates registration and login. Registration performs the
// district and industry matching once and stores the results as denormalized
// fields on the new store row.
type AuthService struct {
	repo          AuthRepository
	districts     DistrictMatcher
	industries    IndustryLookup
	tokenMaker    TokenMaker
	tokenDuration time.Duration
}

// Repository interface for dependency injection
type AuthRepository interface {
	GetUserByLoginID(ctx context.Context, loginID string) (*models.User, error)
	CreateUserWithStore(ctx context.Context, user repository.CreateUserParams, store repository.CreateStoreParams) (*models.User, error)
}

// DistrictMatcher finds the nearest commercial district to a point.
type DistrictMatcher interface {
	FindNearest(ctx context.Context, lon, lat float64) (*models.DistrictMatch, error)
}

// IndustryLookup resolves an industry name to its cluster assignment.
type IndustryLookup interface {
	Lookup(ctx context.Context, name string) (*models.IndustryMatch, error)
}

// TokenMaker issues access tokens for authenticated users.
type TokenMaker interface {
	CreateToken(userID int64, duration time.Duration) (string, error)
}

// NewAuthService creates a new auth service
func NewAuthService(repo AuthRepository, districts DistrictMatcher, industries IndustryLookup, tokenMaker TokenMaker, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		repo:          repo,
		districts:     districts,
		industries:    industries,
		tokenMaker:    tokenMaker,
		tokenDuration: tokenDuration,
	}
}

// SignupStoreInfo is the store portion of a registration request. The
// coordinates are pointers so that `required` checks presence only; 0 is a
// valid longitude and a valid latitude.
type SignupStoreInfo struct {
	PlaceID      *string  `json:"place_id"`
	StoreName    string   `json:"store_name" binding:"required"`
	PlaceURL     *string  `json:"place_url"`
	Phone        *string  `json:"phone"`
	RoadAddress  string   `json:"road_address_name" binding:"required"`
	IndustryName string   `json:"industry_name" binding:"required"`
	Longitude    *float64 `json:"x" binding:"required"`
	Latitude     *float64 `json:"y" binding:"required"`
}

// SignupRequest is a registration request: account fields plus the store.
type SignupRequest struct {
	LoginID   string          `json:"login_id" binding:"required"`
	Password  string          `json:"password" binding:"required,min=8"`
	Name      string          `json:"name" binding:"required"`
	StoreInfo SignupStoreInfo `json:"store_info" binding:"required"`
}

// SignupResult identifies the created user.
type SignupResult struct {
	ID      int64  `json:"id"`
	LoginID string `json:"loginId"`
	Name    string `json:"name"`
}

// Signup registers a user and their store. The nearest-district and industry
// matches are computed first; a missing match on either is not an error and
// leaves the corresponding store fields unset. The user and store inserts run
// in one transaction, so a failure leaves neither row behind.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	existing, err := s.repo.GetUserByLoginID(ctx, req.LoginID)
	if err != nil {
		return nil, apperr.Internal("signup failed", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("login id already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("signup failed", err)
	}

	store := repository.CreateStoreParams{
		PlaceID:      req.StoreInfo.PlaceID,
		Name:         req.StoreInfo.StoreName,
		PlaceURL:     req.StoreInfo.PlaceURL,
		Phone:        req.StoreInfo.Phone,
		RoadAddress:  &req.StoreInfo.RoadAddress,
		IndustryName: &req.StoreInfo.IndustryName,
		Longitude:    req.StoreInfo.Longitude,
		Latitude:     req.StoreInfo.Latitude,
	}

	district, err := s.districts.FindNearest(ctx, *req.StoreInfo.Longitude, *req.StoreInfo.Latitude)
	if err != nil {
		return nil, apperr.Internal("signup failed", err)
	}
	if district != nil {
		store.DistrictCode = &district.DistrictCode
		store.DistrictName = &district.DistrictName
		store.DistrictClusterLabel = &district.ClusterLabel
		store.DistrictClusterType = district.ClusterType
	} else {
		log.Info().Str("login_id", req.LoginID).Msg("no district assigned for new store")
	}

	industry, err := s.industries.Lookup(ctx, req.StoreInfo.IndustryName)
	if err != nil {
		return nil, apperr.Internal("signup failed", err)
	}
	if industry != nil {
		store.IndustryClusterLabel = &industry.ClusterLabel
		store.IndustryClusterType = industry.IndustryTypeCode
	} else {
		log.Info().Str("industry_name", req.StoreInfo.IndustryName).Msg("industry has no cluster assignment")
	}

	user, err := s.repo.CreateUserWithStore(ctx, repository.CreateUserParams{
		LoginID:        req.LoginID,
		HashedPassword: string(hashed),
		Name:           req.Name,
	}, store)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateLoginID) {
			return nil, apperr.Conflict("login id already taken")
		}
		return nil, apperr.Internal("signup failed", err)
	}

	return &SignupResult{ID: user.ID, LoginID: user.LoginID, Name: user.Name}, nil
}

// LoginResult carries the issued access token.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies the credentials and issues a bearer token with the user id
// as its subject.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByLoginID(ctx, loginID)
	if err != nil {
		return nil, apperr.Internal("login failed", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("invalid login id or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid login id or password")
	}

	accessToken, err := s.tokenMaker.CreateToken(user.ID, s.tokenDuration)
	if err != nil {
		return nil, apperr.Internal("login failed", err)
	}

	return &LoginResult{AccessToken: accessToken, TokenType: "bearer"}, nil
}

// CheckUsername reports whether a login id is still available.
func (s *AuthService) CheckUsername(ctx context.Context, loginID string) (bool, error) {
	user, err := s.repo.GetUserByLoginID(ctx, loginID)
	if err != nil {
		return false, fmt.Errorf("service: failed to check login id: %w", err)
	}
	return user == nil, nil
}

// BusinessInfo is the mock verification payload for a business number.
type BusinessInfo struct {
	BusinessName       string `json:"businessName"`
	RepresentativeName string `json:"representativeName"`
	BusinessType       string `json:"businessType"`
	BusinessStatus     string `json:"businessStatus"`
}

// VerifyBusiness validates a business registration number. After stripping
// non-digits it must be exactly 10 digits long. Verification itself is
// mocked; a real registry integration would replace the fixed payload.
func (s *AuthService) VerifyBusiness(businessNumber string) (*BusinessInfo, error) {
	var digits []rune
	for _, r := range businessNumber {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) != 10 {
		return nil, apperr.Validation("invalid business registration number")
	}

	return &BusinessInfo{
		BusinessName:       "소확행 샘플 상호",
		RepresentativeName: "홍길동",
		BusinessType:       "일반과세자",
		BusinessStatus:     "영업중",
	}, nil
}
