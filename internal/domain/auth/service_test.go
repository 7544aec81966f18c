package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/pkg/jwt"
	"github.com/billshome/billshome-api/internal/pkg/password"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*user.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return user.ErrEmailAlreadyExists
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdatePIN(ctx context.Context, id uuid.UUID, pinHash string) error {
	return nil
}

func (f *fakeUserRepo) UpdateProfileImage(ctx context.Context, id uuid.UUID, dataURL string) error {
	return nil
}

func newTestService(repo user.Repository) *Service {
	return NewService(repo, jwt.NewService("test-secret", time.Hour))
}

func TestRegisterHashesSecrets(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := RegisterRequest{Name: "Ada Obi", Email: "Ada@Test.com", Password: "hunter2hunter2", Pin: "1234"}
	u, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if u.Email != "ada@test.com" {
		t.Fatalf("expected lowercased email, got %q", u.Email)
	}
	if u.PasswordHash == req.Password || u.PINHash == req.Pin {
		t.Fatal("secrets must be stored hashed")
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		t.Fatal("password hash does not verify")
	}
	if !password.VerifyPIN(req.Pin, u.PINHash) {
		t.Fatal("pin hash does not verify")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := RegisterRequest{Name: "Ada", Email: "ada@test.com", Password: "hunter2hunter2", Pin: "1234"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, user.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterRejectsBadPin(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	for _, pin := range []string{"123", "12345", "abcd", "12a4"} {
		req := RegisterRequest{Name: "Ada", Email: "ada@test.com", Password: "hunter2hunter2", Pin: pin}
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, wallet.ErrInvalidPinFormat) {
			t.Errorf("pin %q: expected ErrInvalidPinFormat, got %v", pin, err)
		}
	}
}

func TestLoginIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterRequest{Name: "Ada", Email: "ada@test.com", Password: "hunter2hunter2", Pin: "1234"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, token, err := svc.Login(context.Background(), LoginRequest{Email: "ADA@test.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims, err := jwt.NewService("test-secret", time.Hour).ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != "ada@test.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterRequest{Name: "Ada", Email: "ada@test.com", Password: "hunter2hunter2", Pin: "1234"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "ada@test.com", Password: "wrong"}); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@test.com", Password: "whatever"}); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
