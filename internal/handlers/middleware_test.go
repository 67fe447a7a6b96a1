package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"acta_backend/internal/models"
	"acta_backend/internal/redis"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService authenticates a single known token.
type fakeUserService struct {
	token   string
	session *redis.SessionData
}

func (s *fakeUserService) Register(email, password, firstName, lastName string) (*models.User, error) {
	return nil, nil
}

func (s *fakeUserService) Login(email, password string) (string, *models.User, error) {
	return "", nil, nil
}

func (s *fakeUserService) Logout(token string) error { return nil }

func (s *fakeUserService) Authenticate(token string) (*redis.SessionData, error) {
	if token == s.token {
		return s.session, nil
	}
	return nil, redis.ErrSessionNotFound
}

func (s *fakeUserService) GetUserByID(id uuid.UUID) (*models.User, error)    { return nil, nil }
func (s *fakeUserService) GetUserByEmail(email string) (*models.User, error) { return nil, nil }
func (s *fakeUserService) GetAllUsers() ([]models.User, error)               { return nil, nil }

func authTestRouter(userService *fakeUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthRequired(userService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": currentUserID(c).String(),
			"role":    currentUserRole(c),
		})
	})
	return router
}

func TestAuthRequired(t *testing.T) {
	userID := uuid.New()
	userService := &fakeUserService{
		token: "valid-token",
		session: &redis.SessionData{
			UserID: userID.String(),
			Email:  "ana@example.com",
			Role:   string(models.RoleMember),
		},
	}
	router := authTestRouter(userService)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"unknown token", "Bearer expired-token", http.StatusUnauthorized},
		{"valid token", "Bearer valid-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthRequiredExposesIdentity(t *testing.T) {
	userID := uuid.New()
	userService := &fakeUserService{
		token: "valid-token",
		session: &redis.SessionData{
			UserID: userID.String(),
			Role:   string(models.RoleAdmin),
		},
	}
	router := authTestRouter(userService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), string(models.RoleAdmin))
}

func TestAuthRequiredRejectsMalformedSession(t *testing.T) {
	userService := &fakeUserService{
		token:   "valid-token",
		session: &redis.SessionData{UserID: "not-a-uuid"},
	}
	router := authTestRouter(userService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
