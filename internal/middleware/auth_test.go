package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/billshome/billshome-api/internal/pkg/jwt"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	userID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "ada@test.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotID uuid.UUID
	var gotEmail string
	handler := Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotEmail = GetEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != userID || gotEmail != "ada@test.com" {
		t.Fatalf("context not populated: id=%v email=%q", gotID, gotEmail)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	jwtService := jwt.NewService("test-secret", time.Hour)
	handler := Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a valid token")
	}))

	cases := map[string]string{
		"missing header": "",
		"bad format":     "token-without-scheme",
		"bad token":      "Bearer not-a-jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret", -time.Minute)
	token, err := jwtService.GenerateAccessToken(uuid.New(), "ada@test.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler := Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthorizeEmail(t *testing.T) {
	ctx := context.WithValue(context.Background(), EmailKey, "ada@test.com")

	if !AuthorizeEmail(ctx, "ada@test.com") {
		t.Fatal("exact match must be allowed")
	}
	if !AuthorizeEmail(ctx, "ADA@test.com") {
		t.Fatal("email comparison is case-insensitive")
	}
	if AuthorizeEmail(ctx, "other@test.com") {
		t.Fatal("different account must be denied")
	}
	if AuthorizeEmail(context.Background(), "ada@test.com") {
		t.Fatal("unauthenticated context must be denied")
	}
}
