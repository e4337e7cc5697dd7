package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"district-analytics-api/internal/apperr"
	"district-analytics-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req service.SignupRequest) (*service.SignupResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*service.SignupResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, loginID, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, loginID, password)
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) CheckUsername(ctx context.Context, loginID string) (bool, error) {
	args := m.Called(ctx, loginID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) VerifyBusiness(businessNumber string) (*service.BusinessInfo, error) {
	args := m.Called(businessNumber)
	return args.Get(0).(*service.BusinessInfo), args.Error(1)
}

func performJSONRequest(handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func validSignupBody() string {
	return `{
		"login_id": "cafeowner",
		"password": "secret-pass",
		"name": "홍길동",
		"store_info": {
			"store_name": "소소한 카페",
			"road_address_name": "서울 강남구 테헤란로 1",
			"industry_name": "카페",
			"x": 127.0276,
			"y": 37.4979
		}
	}`
}

func TestAuthHandler_Signup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockResult     *service.SignupResult
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{
			name:           "successful signup",
			body:           validSignupBody(),
			mockResult:     &service.SignupResult{ID: 1, LoginID: "cafeowner", Name: "홍길동"},
			expectService:  true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate login id",
			body:           validSignupBody(),
			mockResult:     nil,
			mockError:      apperr.Conflict("login id already exists"),
			expectService:  true,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "malformed json",
			body:           `{"login_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing store info",
			body:           `{"login_id": "cafeowner", "password": "secret-pass", "name": "홍길동"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing coordinates",
			body:           `{"login_id": "cafeowner", "password": "secret-pass", "name": "홍길동", "store_info": {"store_name": "s", "road_address_name": "a", "industry_name": "카페"}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "password too short",
			body:           `{"login_id": "cafeowner", "password": "short", "name": "홍길동", "store_info": {"store_name": "s", "road_address_name": "a", "industry_name": "카페", "x": 127.0, "y": 37.5}}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAuthService)
			handler := NewAuthHandler(mockSvc)

			if tt.expectService {
				mockSvc.On("Signup", mock.Anything, mock.AnythingOfType("service.SignupRequest")).Return(tt.mockResult, tt.mockError)
			}

			w := performJSONRequest(handler.Signup, http.MethodPost, "/auth/signup", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if !tt.expectService {
				mockSvc.AssertNotCalled(t, "Signup")
			}
			if tt.expectedStatus == http.StatusCreated {
				var result service.SignupResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
				assert.Equal(t, int64(1), result.ID)
				assert.Equal(t, "cafeowner", result.LoginID)
			}
			mockSvc.AssertExpectations(t)
		})
	}

	t.Run("zero coordinates bind and reach the service", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		handler := NewAuthHandler(mockSvc)

		mockSvc.On("Signup", mock.Anything, mock.MatchedBy(func(req service.SignupRequest) bool {
			return req.StoreInfo.Longitude != nil && *req.StoreInfo.Longitude == 0 &&
				req.StoreInfo.Latitude != nil && *req.StoreInfo.Latitude == 0
		})).Return(&service.SignupResult{ID: 2, LoginID: "equatorowner", Name: "홍길동"}, nil)

		body := `{
			"login_id": "equatorowner",
			"password": "secret-pass",
			"name": "홍길동",
			"store_info": {
				"store_name": "적도 카페",
				"road_address_name": "적도로 0",
				"industry_name": "카페",
				"x": 0,
				"y": 0
			}
		}`
		w := performJSONRequest(handler.Signup, http.MethodPost, "/auth/signup", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockResult     *service.LoginResult
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{
			name:           "successful login",
			body:           `{"login_id": "cafeowner", "password": "secret-pass"}`,
			mockResult:     &service.LoginResult{AccessToken: "token-abc", TokenType: "bearer"},
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong credentials",
			body:           `{"login_id": "cafeowner", "password": "wrong-pass"}`,
			mockResult:     nil,
			mockError:      apperr.Unauthorized("invalid login id or password"),
			expectService:  true,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			body:           `{"login_id": "cafeowner"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAuthService)
			handler := NewAuthHandler(mockSvc)

			if tt.expectService {
				mockSvc.On("Login", mock.Anything, "cafeowner", mock.AnythingOfType("string")).Return(tt.mockResult, tt.mockError)
			}

			w := performJSONRequest(handler.Login, http.MethodPost, "/auth/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var result service.LoginResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
				assert.Equal(t, "token-abc", result.AccessToken)
				assert.Equal(t, "bearer", result.TokenType)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_CheckUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing login id", func(t *testing.T) {
		handler := NewAuthHandler(new(MockAuthService))
		w := performRequest(handler.CheckUsername, "/auth/check-username", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("available", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		handler := NewAuthHandler(mockSvc)
		mockSvc.On("CheckUsername", mock.Anything, "newuser").Return(true, nil)

		w := performRequest(handler.CheckUsername, "/auth/check-username?login_id=newuser", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Available bool    `json:"available"`
			Message   *string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Available)
		assert.Nil(t, body.Message)
	})

	t.Run("taken", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		handler := NewAuthHandler(mockSvc)
		mockSvc.On("CheckUsername", mock.Anything, "cafeowner").Return(false, nil)

		w := performRequest(handler.CheckUsername, "/auth/check-username?login_id=cafeowner", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Available bool    `json:"available"`
			Message   *string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Available)
		require.NotNil(t, body.Message)
	})
}

func TestAuthHandler_VerifyBusiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("valid number", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		handler := NewAuthHandler(mockSvc)
		mockSvc.On("VerifyBusiness", "123-45-67890").Return(&service.BusinessInfo{
			BusinessName: "소확행 샘플 상호",
		}, nil)

		w := performJSONRequest(handler.VerifyBusiness, http.MethodPost, "/auth/verify-business",
			`{"businessNumber": "123-45-67890"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success      bool                 `json:"success"`
			Verified     bool                 `json:"verified"`
			BusinessInfo service.BusinessInfo `json:"businessInfo"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.True(t, body.Verified)
		assert.Equal(t, "소확행 샘플 상호", body.BusinessInfo.BusinessName)
	})

	t.Run("invalid number", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		handler := NewAuthHandler(mockSvc)
		mockSvc.On("VerifyBusiness", "123").Return((*service.BusinessInfo)(nil), apperr.Validation("business number must have 10 digits"))

		w := performJSONRequest(handler.VerifyBusiness, http.MethodPost, "/auth/verify-business",
			`{"businessNumber": "123"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing number", func(t *testing.T) {
		handler := NewAuthHandler(new(MockAuthService))
		w := performJSONRequest(handler.VerifyBusiness, http.MethodPost, "/auth/verify-business", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
