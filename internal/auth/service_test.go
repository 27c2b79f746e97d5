package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitasa/salesshare/internal/auth"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	byEmail map[string]*auth.User
	byID    map[uuid.UUID]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*auth.User),
		byID:    make(map[uuid.UUID]*auth.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *auth.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return auth.ErrDuplicateEmail
	}
	u.ID = uuid.New()
	cp := *u
	f.byEmail[u.Email] = &cp
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func setup(t *testing.T) *auth.Service {
	t.Helper()
	// Minimum bcrypt cost keeps the suite fast.
	return auth.NewService(newFakeUserRepo(), testSecret, time.Hour, 4)
}

// --- Register Tests ---

func TestRegister_NormalizesEmailAndHashesPassword(t *testing.T) {
	svc := setup(t)

	u, token, err := svc.Register(context.Background(), "  User@Example.COM ", " Jane ", "password123")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", u.Email)
	assert.Equal(t, "Jane", u.Name)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.NotEmpty(t, token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "user@example.com", "Jane", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "user@example.com", "Other", "password456")
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "user@example.com", "Jane", "password123")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "user@example.com", "Jane", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := setup(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// --- Authenticate Tests ---

func TestAuthenticate_RoundTrip(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "user@example.com", "Jane", "password123")
	require.NoError(t, err)

	identity, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, "Jane", identity.Name)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	svc := setup(t)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	issuer := auth.NewService(repo, "secret-a", time.Hour, 4)
	verifier := auth.NewService(repo, "secret-b", time.Hour, 4)

	_, token, err := issuer.Register(ctx, "user@example.com", "Jane", "password123")
	require.NoError(t, err)

	_, err = verifier.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc := auth.NewService(newFakeUserRepo(), testSecret, -time.Hour, 4)

	_, token, err := svc.Register(ctx, "user@example.com", "Jane", "password123")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// --- Token Tests ---

func TestGenerateToken_ClaimsCarrySubject(t *testing.T) {
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, "user@example.com", "Jane", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
}
