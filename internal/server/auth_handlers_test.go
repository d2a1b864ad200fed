package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "unit-test-secret-at-least-32-chars-long"

// validSignupPassword satisfies the password policy used at signup.
const validSignupPassword = "Sup3rSecret!pw"

func newAuthTestServer(userRepo *MockUserRepository) *Server {
	s := newTestServer(new(MockPostRepository), new(MockCommentRepository), userRepo)
	s.config = &config.Config{JWTSecret: testJWTSecret}
	return s
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(userRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "alice",
				"email":    "alice@example.com",
				"password": validSignupPassword,
			},
			mockSetup: func(userRepo *MockUserRepository) {
				userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
					Return(nil, gorm.ErrRecordNotFound)
				userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					// The password must never be stored as plaintext.
					return u.Role == models.RoleUser && u.Password != validSignupPassword
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*models.User).ID = 1
				}).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"username": "alice",
			},
			mockSetup:      func(userRepo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "alice",
				"email":    "alice@example.com",
				"password": "short",
			},
			mockSetup:      func(userRepo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"username": "alice",
				"email":    "alice@example.com",
				"password": validSignupPassword,
			},
			mockSetup: func(userRepo *MockUserRepository) {
				userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
					Return(&models.User{ID: 1, Email: "alice@example.com"}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			tt.mockSetup(userRepo)
			s := newAuthTestServer(userRepo)

			app := fiber.New()
			app.Post("/auth/signup", s.Signup)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var got struct {
					Token string      `json:"token"`
					User  models.User `json:"user"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
				assert.NotEmpty(t, got.Token)
				assert.Equal(t, "alice", got.User.Username)
			}
			userRepo.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(validSignupPassword), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{
		ID:       1,
		Username: "alice",
		Email:    "alice@example.com",
		Password: string(hashed),
		Role:     models.RoleUser,
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(userRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"email": "alice@example.com", "password": validSignupPassword},
			mockSetup: func(userRepo *MockUserRepository) {
				userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"email": "alice@example.com", "password": "Wrong-Passw0rd!"},
			mockSetup: func(userRepo *MockUserRepository) {
				userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown Email",
			body: map[string]string{"email": "nobody@example.com", "password": validSignupPassword},
			mockSetup: func(userRepo *MockUserRepository) {
				userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			tt.mockSetup(userRepo)
			s := newAuthTestServer(userRepo)

			app := fiber.New()
			app.Post("/auth/login", s.Login)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			userRepo.AssertExpectations(t)
		})
	}
}

func TestAuthRequired(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Username: "alice", Role: models.RoleAdmin}, nil)
	s := newAuthTestServer(userRepo)

	token, err := s.generateToken(1, models.RoleUser)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/whoami", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(s.principal(c))
	})

	t.Run("Valid Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// The role comes from the user store, not the token: the account
		// was promoted after the token was issued.
		var got models.Principal
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, uint(1), got.UserID)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("Missing Header", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := newAuthTestServer(new(MockUserRepository))
		other.config = &config.Config{JWTSecret: "a-completely-different-32-char-secret!"}
		foreign, err := other.generateToken(1, models.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown User", func(t *testing.T) {
		missing := newAuthTestServer(userRepo)
		userRepo.On("GetByID", mock.Anything, uint(2)).
			Return(nil, gorm.ErrRecordNotFound)
		orphan, err := missing.generateToken(2, models.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+orphan)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
