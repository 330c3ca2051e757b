package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"file_integrity_backend/internal/auth"
	"file_integrity_backend/internal/logger"
	"file_integrity_backend/internal/models"
	"file_integrity_backend/internal/repositories"
	"file_integrity_backend/internal/services/dto"
	"file_integrity_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	TokenTypeBearer = "bearer"

	minUsernameLength = 3
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Authenticate проверяет bearer-токен и возвращает активного пользователя.
	Authenticate(ctx context.Context, db *gorm.DB, token string) (*models.User, error)
	GetUser(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserResponse, error)
	// Logout ничего не хранит на сервере: токен живет до истечения срока.
	Logout(ctx context.Context, userID uint) *dto.MessageResponse
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	jwt      *auth.JWTManager
}

func NewAuthService(userRepo repositories.UserRepository, jwt *auth.JWTManager) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		jwt:      jwt,
	}
}

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	// Валидатор видит имя до обрезки пробелов
	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, apperrors.ValidationError(map[string]string{
			"username": fmt.Sprintf("Must be at least %d characters long", minUsernameLength),
		})
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.checkIdentityFree(tx, email, username); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateIdentity) {
			// Параллельная регистрация успела раньше
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID)
	return dto.NewUserResponse(user), nil
}

func (s *AuthServiceImpl) checkIdentityFree(db *gorm.DB, email, username string) error {
	taken, err := s.userRepo.ExistsByEmail(db, email)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if taken {
		return apperrors.ErrEmailAlreadyExists
	}

	taken, err = s.userRepo.ExistsByUsername(db, username)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if taken {
		return apperrors.ErrUsernameAlreadyExists
	}
	return nil
}

// Login - аутентификация по email и паролю
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(db.WithContext(ctx), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Тратим столько же времени, сколько на реальную проверку
			auth.CompareDummy(req.Password)
			logger.CtxWarn(ctx, "Login failed")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.HashedPassword) {
		logger.CtxWarn(ctx, "Login failed")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserDisabled
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return &dto.TokenResponse{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, db *gorm.DB, token string) (*models.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserDisabled
	}
	return user, nil
}

func (s *AuthServiceImpl) GetUser(ctx context.Context, db *gorm.DB, userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, userID uint) *dto.MessageResponse {
	logger.CtxInfo(ctx, "User logged out", "user_id", userID)
	return &dto.MessageResponse{Message: "Successfully logged out"}
}
