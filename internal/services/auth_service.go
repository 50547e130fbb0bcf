package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"zoe_store_backend/internal/models"
	"zoe_store_backend/internal/repositories"
	"zoe_store_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUserValidation     = errors.New("user data validation error")
)

// --- DTOs ---

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// AuthResponse carries the opaque session credential issued on login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}

// WelcomeNotifier sends the post-signup greeting. Implementations must be
// safe for concurrent use; CreateAccount calls it from its own goroutine.
type WelcomeNotifier interface {
	SendWelcomeEmail(email, username string) error
}

// --- AuthService Interface ---

// AuthService is the account service boundary: credential hashing, session
// issuance and user record CRUD.
type AuthService interface {
	CreateAccount(req CreateUserRequest) (*models.User, error)
	Authenticate(req LoginRequest) (*AuthResponse, error)
	GetUserByID(userID int64) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(userID int64, req UpdateUserRequest) (*models.User, error)
	DeleteUser(userID int64) error
}

// --- authService Implementation ---
type authService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
	notifier WelcomeNotifier
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository, db *sql.DB, notifier WelcomeNotifier) AuthService {
	return &authService{
		userRepo: userRepo,
		db:       db,
		notifier: notifier,
	}
}

// CreateAccount hashes the credential, persists the user and fires the
// welcome notification without waiting for it. A notification failure is
// logged and never fails account creation.
func (s *authService) CreateAccount(req CreateUserRequest) (*models.User, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrUserValidation)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: req.Username,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	}

	userID, err := s.userRepo.CreateUser(s.db, &user, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.notifier != nil {
		go func(email, username string) {
			if notifyErr := s.notifier.SendWelcomeEmail(email, username); notifyErr != nil {
				utils.LogError(notifyErr, fmt.Sprintf("welcome email to %s failed", email))
			}
		}(user.Email, user.Username)
	}

	created, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		// The account exists even if the read-back failed; return what we have.
		user.ID = userID
		return &user, nil
	}
	return created, nil
}

// Authenticate checks the credential against the stored hash and issues a
// signed access token. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *authService) Authenticate(req LoginRequest) (*AuthResponse, error) {
	user, storedHash, err := s.userRepo.FindUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{AccessToken: accessToken}, nil
}

func (s *authService) GetUserByID(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *authService) GetUsers() ([]models.User, error) {
	users, err := s.userRepo.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (s *authService) UpdateUser(userID int64, req UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user for update: %w", err)
	}

	if req.Username != nil {
		if strings.TrimSpace(*req.Username) == "" {
			return nil, fmt.Errorf("%w: username cannot be empty if provided", ErrUserValidation)
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return nil, fmt.Errorf("%w: email cannot be empty if provided", ErrUserValidation)
		}
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	var hashedPassword *string
	if req.Password != nil && *req.Password != "" {
		hashedBytes, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		hashed := string(hashedBytes)
		hashedPassword = &hashed
	}

	if err := s.userRepo.UpdateUser(s.db, user, hashedPassword); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.userRepo.FindUserByID(userID)
}

func (s *authService) DeleteUser(userID int64) error {
	if err := s.userRepo.DeleteUser(s.db, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
