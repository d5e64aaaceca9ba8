package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskify/backend/internal/config"
	"taskify/backend/internal/handlers"
	"taskify/backend/internal/models"
	"taskify/backend/internal/services"
	"taskify/backend/internal/tokenstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockUserService struct {
	exists    bool
	user      *models.User
	authErr   error
	createErr error
}

func (m *MockUserService) UserExists(db *gorm.DB, username, email string) (bool, error) {
	return m.exists, nil
}

func (m *MockUserService) CreateUser(db *gorm.DB, user models.User, password string) (*models.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	user.ID = uuid.Must(uuid.NewV4())
	return &user, nil
}

func (m *MockUserService) Authenticate(db *gorm.DB, usernameOrEmail, password string) (*models.User, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.user, nil
}

func setupUserHandler(t *testing.T, mockService *MockUserService) (*gin.Engine, *tokenstore.RedisTokenStore, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	storeConfig := tokenstore.DefaultStoreConfig()
	storeConfig.Addr = mr.Addr()
	tokens := tokenstore.NewRedisTokenStore(storeConfig)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	tokenService := services.NewTokenService(config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "taskify-backend",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})

	handler := handlers.NewUserHandler(db, mockService, tokenService, tokens)
	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	router.POST("/refresh", handler.Refresh)
	router.POST("/logout", handler.Logout)

	return router, tokens, db
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	router, _, _ := setupUserHandler(t, &MockUserService{})

	w := postJSON(router, "/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "ValidPass1!",
	})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	router, _, _ := setupUserHandler(t, &MockUserService{exists: true})

	w := postJSON(router, "/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "ValidPass1!",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	router, _, _ := setupUserHandler(t, &MockUserService{
		createErr: &services.ValidationError{Reason: "Password must contain at least one digit."},
	})

	w := postJSON(router, "/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "NoDigits!!",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["error"] != "Password must contain at least one digit." {
		t.Errorf("Expected validation reason in error, got %q", response["error"])
	}
}

func TestLogin(t *testing.T) {
	user := &models.User{ID: uuid.Must(uuid.NewV4()), Username: "alice", Email: "alice@example.com"}
	router, tokens, _ := setupUserHandler(t, &MockUserService{user: user})

	w := postJSON(router, "/login", map[string]string{
		"username": "alice",
		"password": "ValidPass1!",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response handlers.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.AccessToken == "" || response.RefreshToken == "" {
		t.Error("Expected both tokens in login response")
	}
	if response.TokenType != "Bearer" {
		t.Errorf("Expected token type Bearer, got %s", response.TokenType)
	}

	storedUser, err := tokens.Lookup(context.Background(), response.RefreshToken)
	if err != nil {
		t.Fatalf("Expected refresh token to be stored: %v", err)
	}
	if storedUser != user.ID {
		t.Errorf("Expected refresh token bound to %s, got %s", user.ID, storedUser)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, _, _ := setupUserHandler(t, &MockUserService{authErr: services.ErrNoMatch})

	w := postJSON(router, "/login", map[string]string{
		"username": "alice",
		"password": "wrongpass",
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	user := &models.User{ID: uuid.Must(uuid.NewV4()), Username: "alice", Email: "alice@example.com"}
	router, tokens, db := setupUserHandler(t, &MockUserService{user: user})

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	if err := tokens.Save(context.Background(), "old-refresh", user.ID, time.Hour); err != nil {
		t.Fatalf("Failed to seed refresh token: %v", err)
	}

	w := postJSON(router, "/refresh", map[string]string{"refresh_token": "old-refresh"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response handlers.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if _, err := tokens.Lookup(context.Background(), "old-refresh"); err != tokenstore.ErrTokenNotFound {
		t.Errorf("Expected presented refresh token to be revoked, got %v", err)
	}
	if _, err := tokens.Lookup(context.Background(), response.RefreshToken); err != nil {
		t.Errorf("Expected new refresh token to be stored: %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	router, _, _ := setupUserHandler(t, &MockUserService{})

	w := postJSON(router, "/refresh", map[string]string{"refresh_token": "never-issued"})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	user := &models.User{ID: uuid.Must(uuid.NewV4()), Username: "alice"}
	router, tokens, _ := setupUserHandler(t, &MockUserService{user: user})

	if err := tokens.Save(context.Background(), "live-token", user.ID, time.Hour); err != nil {
		t.Fatalf("Failed to seed refresh token: %v", err)
	}

	w := postJSON(router, "/logout", map[string]string{"refresh_token": "live-token"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if _, err := tokens.Lookup(context.Background(), "live-token"); err != tokenstore.ErrTokenNotFound {
		t.Errorf("Expected token revoked, got %v", err)
	}
}
