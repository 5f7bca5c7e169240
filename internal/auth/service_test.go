package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	pkgauth "github.com/aureliajewels/aurelia-backend/pkg/auth"
	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubUserStore struct {
	byEmail   map[string]*models.User
	createErr error
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: map[string]*models.User{}}
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return nil, &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "users_email_key",
			Message:        `duplicate key value violates unique constraint "users_email_key"`,
		}
	}
	s.byEmail[user.Email] = user
	return user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-1234",
		Issuer:            "aurelia-test",
		ExpirationMinutes: 60,
	}
}

// Small parameters keep argon2id fast in tests; the clamps in
// pkg/security raise them to the configured floors.
func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newAuthService(t *testing.T, store userStore) Service {
	t.Helper()
	svc, err := NewService(store, testJWTConfig(), testPasswordConfig(), nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestRegisterThenLogin(t *testing.T) {
	store := newStubUserStore()
	svc := newAuthService(t, store)

	session, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Asha Verma",
		Email:    "  Asha@Example.COM ",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if session.User.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %q", session.User.Email)
	}
	if session.User.Role != enums.UserRoleCustomer {
		t.Fatalf("new accounts must be customers, got %s", session.User.Role)
	}
	if session.AccessToken == "" {
		t.Fatal("expected access token")
	}
	stored := store.byEmail["asha@example.com"]
	if stored == nil {
		t.Fatal("account not persisted")
	}
	if stored.PasswordHash == "correct horse battery" || !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("password stored unhashed: %q", stored.PasswordHash)
	}

	loginSession, err := svc.Login(context.Background(), LoginInput{
		Email:    "asha@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), loginSession.AccessToken)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.UserID != stored.ID {
		t.Fatalf("token user %s does not match account %s", claims.UserID, stored.ID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected token role %s", claims.Role)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	store := newStubUserStore()
	svc := newAuthService(t, store)

	input := RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "correct horse battery"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, err := svc.Register(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, newStubUserStore())

	cases := map[string]RegisterInput{
		"missing name":   {Email: "a@example.com", Password: "long enough pw"},
		"missing email":  {Name: "Asha", Password: "long enough pw"},
		"bad email":      {Name: "Asha", Email: "not-an-email", Password: "long enough pw"},
		"short password": {Name: "Asha", Email: "a@example.com", Password: "short"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	store := newStubUserStore()
	svc := newAuthService(t, store)

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "correct horse battery",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, wrongPw := svc.Login(context.Background(), LoginInput{Email: "asha@example.com", Password: "wrong password"})
	_, unknown := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever pw"})

	for _, err := range []error{wrongPw, unknown} {
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("credential errors must be indistinguishable: %q vs %q", wrongPw, unknown)
	}
}
