package services

import (
	"errors"
	"fmt"
	"time"

	"acta_backend/internal/models"
	"acta_backend/internal/redis"
	"acta_backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService interface {
	Register(email, password, firstName, lastName string) (*models.User, error)
	Login(email, password string) (string, *models.User, error)
	Logout(token string) error
	Authenticate(token string) (*redis.SessionData, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetAllUsers() ([]models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	redis      *redis.Client
	sessionTTL time.Duration
}

func NewUserService(userRepo repository.UserRepository, redisClient *redis.Client, sessionTTL time.Duration) UserService {
	return &userService{userRepo: userRepo, redis: redisClient, sessionTTL: sessionTTL}
}

func (s *userService) Register(email, password, firstName, lastName string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user with email %q already exists", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         string(models.RoleMember),
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password and issues an opaque bearer token backed by a
// redis session.
func (s *userService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	session := &redis.SessionData{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.redis.SetSession(token, session, s.sessionTTL); err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *userService) Logout(token string) error {
	return s.redis.DeleteSession(token)
}

func (s *userService) Authenticate(token string) (*redis.SessionData, error) {
	return s.redis.GetSession(token)
}

func (s *userService) GetUserByID(id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.userRepo.GetByEmail(email)
}

func (s *userService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}
