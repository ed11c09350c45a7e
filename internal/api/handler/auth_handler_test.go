package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/serverapp/account-api/internal/core/domain"
	"github.com/serverapp/account-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) error
	loginFn    func(ctx context.Context, username, password string) (*ports.AuthResult, error)
	refreshFn  func(ctx context.Context, claims *domain.TokenClaims) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) RefreshToken(ctx context.Context, claims *domain.TokenClaims) (*ports.AuthResult, error) {
	return s.refreshFn(ctx, claims)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const validRegisterBody = `{
	"first_name": "Alice",
	"last_name": "Anderson",
	"email": "alice@example.com",
	"password": "password1",
	"phone_number": "081234567890"
}`

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) error {
			if in.Email != "alice@example.com" || in.PhoneNumber != "081234567890" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/account/register", validRegisterBody)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !strings.Contains(resp["message"], "created successfully") {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub)

	cases := map[string]string{
		"short password": `{"first_name":"Alice","last_name":"Anderson","email":"alice@example.com","password":"short","phone_number":"081234567890"}`,
		"bad email":      `{"first_name":"Alice","last_name":"Anderson","email":"not-an-email","password":"password1","phone_number":"081234567890"}`,
		"bad phone":      `{"first_name":"Alice","last_name":"Anderson","email":"alice@example.com","password":"password1","phone_number":"99999999999"}`,
		"short name":     `{"first_name":"Al","last_name":"Anderson","email":"alice@example.com","password":"password1","phone_number":"081234567890"}`,
	}

	for name, body := range cases {
		c, _ := newTestContext(t, http.MethodPost, "/account/register", body)
		err := h.Register(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", name, err)
		}
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) error {
			return domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/account/register", validRegisterBody)
	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken to propagate, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/account/register", "not-json")
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.AuthResult, error) {
			if username != "alice@example.com" || password != "password1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.AuthResult{FirstName: "alice", LastName: "anderson", Token: "token123"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/account/login", `{"username":"alice@example.com","password":"password1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["first_name"] != "alice" || resp["last_name"] != "anderson" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/account/login", `{"username":"alice@example.com","password":"bad"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/account/login", `{"username":"alice@example.com"}`)
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, claims *domain.TokenClaims) (*ports.AuthResult, error) {
			if claims.Email != "alice@example.com" {
				t.Fatalf("unexpected claims: %+v", claims)
			}
			return &ports.AuthResult{FirstName: "alice", LastName: "anderson", Token: "fresh-token"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/account/refresh-token", "")
	c.Set("claims", &domain.TokenClaims{Email: "alice@example.com"})

	if err := h.RefreshToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "fresh-token" {
		t.Fatalf("unexpected token: %q", resp["token"])
	}
}

func TestAuthHandler_RefreshToken_MissingClaims(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(context.Context, *domain.TokenClaims) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/account/refresh-token", "")
	err := h.RefreshToken(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_RefreshToken_AccountGone(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(context.Context, *domain.TokenClaims) (*ports.AuthResult, error) {
			return nil, domain.ErrAccountNotFound
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/account/refresh-token", "")
	c.Set("claims", &domain.TokenClaims{Email: "ghost@example.com"})

	if err := h.RefreshToken(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound to propagate, got %v", err)
	}
}
