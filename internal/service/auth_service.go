package service

import (
	"os"
	"time"

	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"github.com/DevKor-github/onboarding-team2-be/internal/repository"
	"github.com/DevKor-github/onboarding-team2-be/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repository.UserRepositoryInterface
}

func NewAuthService(userRepo repository.UserRepositoryInterface) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Tags     string `json:"tags"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func (s *AuthService) Register(input RegisterInput) (*AuthResponse, error) {
	input.Email = validation.NormalizeEmail(input.Email)
	input.Username = validation.NormalizeUsername(input.Username)

	if !validation.ValidateEmail(input.Email) {
		return nil, NewValidationError("invalid_email", "Invalid email address")
	}
	if !validation.ValidateUsername(input.Username) {
		return nil, NewValidationError("invalid_username", "Invalid username")
	}
	if !validation.ValidatePassword(input.Password) {
		return nil, NewValidationError("weak_password", "Password too short")
	}

	// Check if user exists
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, NewConflictError("email_taken", "Email already registered")
	}
	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, NewConflictError("username_taken", "Username already taken")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FullName:     input.FullName,
		Tags:         input.Tags,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *AuthService) Login(input LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(input.Email))
	if err != nil {
		return nil, NewUnauthorizedError("invalid_credentials", "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid_credentials", "Invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// EnsureAdmin creates the admin account at startup if it does not exist.
// Re-runs are no-ops; an existing user with the email is left untouched.
func (s *AuthService) EnsureAdmin(username, email, password string) error {
	email = validation.NormalizeEmail(email)
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.Create(&models.User{
		Username:     validation.NormalizeUsername(username),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         "admin",
	})
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
