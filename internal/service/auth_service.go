package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/gearup-shop/internal/config"
	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/logger"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/oauth"
	"github.com/gearup-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTExpireHours = 24

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	ProfilePicURL string
}

// AuthResult 登录/注册返回
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// AuthService 用户认证服务（密码登录 + Google 登录）
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	googleClient *oauth.GoogleClient
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, googleClient *oauth.GoogleClient) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		googleClient: googleClient,
	}
}

// Register 注册新用户
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidInput
	}
	password := strings.TrimSpace(input.Password)
	if len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:         email,
		PasswordHash:  string(hashedPassword),
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		ProfilePicURL: strings.TrimSpace(input.ProfilePicURL),
		IsAdmin:       s.cfg.Admin.IsAdminEmail(email),
		AuthProvider:  constants.AuthProviderPassword,
		LastLoginAt:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Infow("user_registered", "user_id", user.ID, "provider", constants.AuthProviderPassword)
	return s.issueToken(user)
}

// Login 密码登录
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// GoogleLogin 用 Google access token 登录，首次登录自动建档
func (s *AuthService) GoogleLogin(ctx context.Context, accessToken string) (*AuthResult, error) {
	if !s.cfg.GoogleOAuth.Enabled || s.googleClient == nil {
		return nil, ErrOAuthDisabled
	}
	info, err := s.googleClient.FetchUserInfo(ctx, accessToken)
	if err != nil {
		if errors.Is(err, oauth.ErrTokenRejected) {
			return nil, ErrOAuthTokenInvalid
		}
		return nil, err
	}

	email, err := normalizeEmail(info.Email)
	if err != nil {
		return nil, ErrOAuthTokenInvalid
	}
	now := time.Now().UTC()
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{
			Email:         email,
			FirstName:     strings.TrimSpace(info.GivenName),
			LastName:      strings.TrimSpace(info.FamilyName),
			ProfilePicURL: strings.TrimSpace(info.Picture),
			IsAdmin:       s.cfg.Admin.IsAdminEmail(email),
			AuthProvider:  constants.AuthProviderGoogle,
			LastLoginAt:   &now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
		logger.Infow("user_registered", "user_id", user.ID, "provider", constants.AuthProviderGoogle)
	} else {
		if pic := strings.TrimSpace(info.Picture); pic != "" {
			user.ProfilePicURL = pic
		}
		user.LastLoginAt = &now
		user.UpdatedAt = now
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}
	return s.issueToken(user)
}

// GetUserByID 获取用户信息
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GenerateUserJWT 生成用户 JWT Token
func (s *AuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.UserJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = defaultJWTExpireHours
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *AuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func (s *AuthService) issueToken(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", ErrInvalidInput
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidInput
	}
	return trimmed, nil
}
