package services

import (
	"errors"
	"fmt"
	"time"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	UserExists(db *gorm.DB, username, email string) (bool, error)
	CreateUser(db *gorm.DB, user models.User, password string) (*models.User, error)
	Authenticate(db *gorm.DB, usernameOrEmail, password string) (*models.User, error)
}

type UserServiceImpl struct {
	bcryptCost int
}

func NewUserService(bcryptCost int) *UserServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserServiceImpl{bcryptCost: bcryptCost}
}

// UserExists reports whether any stored user matches the username or the email.
func (s *UserServiceImpl) UserExists(db *gorm.DB, username, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// CreateUser validates the raw password, hashes it, and persists the user.
// A weak password is reported as a *ValidationError with nothing persisted.
func (s *UserServiceImpl) CreateUser(db *gorm.DB, user models.User, password string) (*models.User, error) {
	if verr := ValidatePassword(password); verr != nil {
		return nil, verr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.Must(uuid.NewV4())
	}
	user.Password = string(hashed)
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate looks the user up by username or email and verifies the
// password. Both an unknown account and a wrong password yield ErrNoMatch so
// callers cannot tell which check failed.
func (s *UserServiceImpl) Authenticate(db *gorm.DB, usernameOrEmail, password string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrNoMatch
	}

	return &user, nil
}
