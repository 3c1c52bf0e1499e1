package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gearup-shop/internal/config"
	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/oauth"
	"github.com/gearup-shop/internal/repository"
)

func newAuthServiceForTest(t *testing.T, name string, cfg *config.Config) (*AuthService, repository.UserRepository) {
	t.Helper()
	db := newServiceTestDB(t, name)
	userRepo := repository.NewUserRepository(db)
	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.UserJWT.SecretKey == "" {
		cfg.UserJWT.SecretKey = "test-secret-not-for-production-0123456789"
	}
	return NewAuthService(cfg, userRepo, nil), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "auth_register_login", nil)

	result, err := svc.Register(RegisterInput{
		Email:         "  Alice@Example.COM ",
		Password:      "correct-horse-9",
		FirstName:     "Alice",
		LastName:      "Doe",
		ProfilePicURL: "https://img.example.com/alice.png",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.ProfilePicURL != "https://img.example.com/alice.png" {
		t.Fatalf("expected profile pic url to persist, got %q", result.User.ProfilePicURL)
	}
	if result.User.AuthProvider != constants.AuthProviderPassword {
		t.Fatalf("expected password provider, got %q", result.User.AuthProvider)
	}
	if result.Token == "" {
		t.Fatalf("expected token on register")
	}

	login, err := svc.Login("alice@example.com", "correct-horse-9")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	claims, err := svc.ParseUserJWT(login.Token)
	if err != nil {
		t.Fatalf("ParseUserJWT error: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "auth_register_validation", nil)

	if _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "long-enough-1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad email, got: %v", err)
	}
	if _, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "short"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for short password, got: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "auth_register_dup", nil)

	if _, err := svc.Register(RegisterInput{Email: "dup@example.com", Password: "password-123"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := svc.Register(RegisterInput{Email: "DUP@example.com", Password: "password-123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "auth_login_wrong", nil)

	if _, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "password-123"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := svc.Login("bob@example.com", "password-456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "password-123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got: %v", err)
	}
}

func TestRegisterAdminEmailFlag(t *testing.T) {
	cfg := &config.Config{}
	cfg.Admin.Emails = []string{"Boss@Example.com"}
	svc, _ := newAuthServiceForTest(t, "auth_admin_flag", cfg)

	result, err := svc.Register(RegisterInput{Email: "boss@example.com", Password: "password-123"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !result.User.IsAdmin {
		t.Fatalf("expected admin flag for allow-listed email")
	}
}

func TestGoogleLoginDisabled(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "auth_google_disabled", nil)

	if _, err := svc.GoogleLogin(context.Background(), "token"); !errors.Is(err, ErrOAuthDisabled) {
		t.Fatalf("expected oauth disabled, got: %v", err)
	}
}

func TestGoogleLoginProvisionsUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sub":         "google-sub-1",
			"email":       "carol@example.com",
			"given_name":  "Carol",
			"family_name": "Chen",
			"picture":     "https://lh3.example.com/carol.jpg",
		})
	}))
	defer server.Close()

	db := newServiceTestDB(t, "auth_google_provision")
	userRepo := repository.NewUserRepository(db)
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret-not-for-production-0123456789"
	cfg.GoogleOAuth.Enabled = true
	cfg.GoogleOAuth.UserinfoURL = server.URL
	googleClient := oauth.NewGoogleClient(oauth.Config{UserinfoURL: server.URL})
	svc := NewAuthService(cfg, userRepo, googleClient)

	result, err := svc.GoogleLogin(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("GoogleLogin error: %v", err)
	}
	if result.User.Email != "carol@example.com" || result.User.AuthProvider != constants.AuthProviderGoogle {
		t.Fatalf("unexpected provisioned user: %+v", result.User)
	}
	if result.User.ProfilePicURL != "https://lh3.example.com/carol.jpg" {
		t.Fatalf("expected google picture to be stored, got %q", result.User.ProfilePicURL)
	}

	// 二次登录复用同一账号
	again, err := svc.GoogleLogin(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("second GoogleLogin error: %v", err)
	}
	if again.User.ID != result.User.ID {
		t.Fatalf("expected same user on repeat login, got %d and %d", result.User.ID, again.User.ID)
	}

	if _, err := svc.GoogleLogin(context.Background(), "bad-token"); !errors.Is(err, ErrOAuthTokenInvalid) {
		t.Fatalf("expected oauth token invalid, got: %v", err)
	}
}
