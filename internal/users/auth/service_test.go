package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// # Fakes

type memoryUsers struct {
	byID map[string]*auth.User
}

func (repository *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryUsers) FindByLogin(ctx context.Context, login string) (*auth.User, error) {
	for id, user := range repository.byID {
		if strings.EqualFold(user.Email, login) || strings.EqualFold(user.Username, login) {
			return repository.FindByID(ctx, id)
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryUsers) Create(_ context.Context, user *auth.User) error {
	for _, existing := range repository.byID {
		if strings.EqualFold(existing.Username, user.Username) {
			return apperr.Conflict("Username is already taken")
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("Email is already registered")
		}
	}
	copied := *user
	repository.byID[user.ID] = &copied
	return nil
}

func (repository *memoryUsers) Update(_ context.Context, user *auth.User) error {
	copied := *user
	repository.byID[user.ID] = &copied
	return nil
}

func (repository *memoryUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	repository.byID[userID].PasswordHash = hash
	return nil
}

func (repository *memoryUsers) TouchLastLogin(_ context.Context, userID string) error {
	repository.byID[userID].LastLoginAt = pointer.To(time.Now())
	return nil
}

type memorySessions struct {
	byHash map[string]*auth.Session
}

func (repository *memorySessions) Create(_ context.Context, session *auth.Session) error {
	copied := *session
	repository.byHash[session.TokenHash] = &copied
	return nil
}

func (repository *memorySessions) FindByTokenHash(_ context.Context, hash string) (*auth.Session, error) {
	session, ok := repository.byHash[hash]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return session, nil
}

func (repository *memorySessions) Revoke(_ context.Context, session *auth.Session) error {
	delete(repository.byHash, session.TokenHash)
	return nil
}

func (repository *memorySessions) RevokeAll(_ context.Context, userID, keepHash string) error {
	for hash, session := range repository.byHash {
		if session.UserID == userID && hash != keepHash {
			delete(repository.byHash, hash)
		}
	}
	return nil
}

type staticTokens struct{}

func (staticTokens) GenerateAccessToken(userID, _, role string, _ time.Duration) (string, error) {
	return "access-" + userID + "-" + role, nil
}

type fixture struct {
	service  *auth.Service
	users    *memoryUsers
	sessions *memorySessions
}

func newFixture() fixture {
	users := &memoryUsers{byID: map[string]*auth.User{}}
	sessions := &memorySessions{byHash: map[string]*auth.Session{}}
	service := auth.NewService(users, sessions, staticTokens{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return fixture{service: service, users: users, sessions: sessions}
}

func statusOf(err error) int {
	if ae := apperr.As(err); ae != nil {
		return ae.HTTPStatus
	}
	return 0
}

func register(t *testing.T, f fixture, username, email string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{Username: username, Email: email, Password: "Secret123"})
	require.NoError(t, err)
	return user
}

// # Tests

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		f := newFixture()
		user, err := f.service.Register(ctx, auth.RegisterInput{
			Username: "reader_01", Email: "Reader@Example.com", Password: "Secret123", DisplayName: pointer.To(" Reader "),
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleMember, user.Role)
		assert.Equal(t, "en", user.PreferredLanguage)
		assert.Equal(t, "reader@example.com", user.Email)
		assert.Equal(t, "Reader", pointer.Val(user.DisplayName))
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "Secret123", user.PasswordHash)
	})

	t.Run("field rules", func(t *testing.T) {
		f := newFixture()
		tests := []struct {
			name  string
			input auth.RegisterInput
			field string
		}{
			{"short username", auth.RegisterInput{Username: "ab", Email: "a@b.co", Password: "Secret123"}, auth.FieldUsername},
			{"username symbols", auth.RegisterInput{Username: "bad-name", Email: "a@b.co", Password: "Secret123"}, auth.FieldUsername},
			{"email", auth.RegisterInput{Username: "reader", Email: "nope", Password: "Secret123"}, auth.FieldEmail},
			{"no digit", auth.RegisterInput{Username: "reader", Email: "a@b.co", Password: "SecretPass"}, auth.FieldPassword},
			{"too short", auth.RegisterInput{Username: "reader", Email: "a@b.co", Password: "Se1"}, auth.FieldPassword},
			{"language", auth.RegisterInput{Username: "reader", Email: "a@b.co", Password: "Secret123", PreferredLanguage: pointer.To("english")}, auth.FieldPreferredLanguage},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.service.Register(ctx, tt.input)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
				require.NotEmpty(t, ae.Details)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			})
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		f := newFixture()
		register(t, f, "reader", "one@example.com")
		_, err := f.service.Register(ctx, auth.RegisterInput{Username: "READER", Email: "two@example.com", Password: "Secret123"})
		assert.Equal(t, http.StatusConflict, statusOf(err))
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := register(t, f, "reader", "reader@example.com")

	for _, login := range []string{"reader", "READER@example.com"} {
		session, err := f.service.Login(ctx, auth.LoginInput{Login: login, Password: "Secret123"})
		require.NoError(t, err, login)
		assert.Equal(t, "access-"+user.ID+"-member", session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Contains(t, f.sessions.byHash, sec.HashToken(session.RefreshToken))
	}
	assert.NotNil(t, f.users.byID[user.ID].LastLoginAt)

	_, err := f.service.Login(ctx, auth.LoginInput{Login: "reader", Password: "Wrong1234"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, err = f.service.Login(ctx, auth.LoginInput{Login: "ghost", Password: "Secret123"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	f.users.byID[user.ID].IsActive = false
	_, err = f.service.Login(ctx, auth.LoginInput{Login: "reader", Password: "Secret123"})
	assert.Equal(t, http.StatusForbidden, statusOf(err))
}

func TestService_RefreshSession_Rotates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	register(t, f, "reader", "reader@example.com")

	first, err := f.service.Login(ctx, auth.LoginInput{Login: "reader", Password: "Secret123"})
	require.NoError(t, err)

	second, err := f.service.RefreshSession(ctx, first.RefreshToken, "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.service.RefreshSession(ctx, first.RefreshToken, "ua", "127.0.0.1")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	require.NoError(t, f.service.Logout(ctx, second.RefreshToken))
	assert.Empty(t, f.sessions.byHash)
	assert.NoError(t, f.service.Logout(ctx, "unknown"))
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	user := register(t, f, "reader", "reader@example.com")

	phone, err := f.service.Login(ctx, auth.LoginInput{Login: "reader", Password: "Secret123"})
	require.NoError(t, err)
	laptop, err := f.service.Login(ctx, auth.LoginInput{Login: "reader", Password: "Secret123"})
	require.NoError(t, err)

	err = f.service.ChangePassword(ctx, user.ID, "Wrong1234", "Changed123", laptop.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	err = f.service.ChangePassword(ctx, user.ID, "Secret123", "weak", laptop.RefreshToken)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	require.NoError(t, f.service.ChangePassword(ctx, user.ID, "Secret123", "Changed123", laptop.RefreshToken))
	assert.Contains(t, f.sessions.byHash, sec.HashToken(laptop.RefreshToken))
	assert.NotContains(t, f.sessions.byHash, sec.HashToken(phone.RefreshToken))

	_, err = f.service.Login(ctx, auth.LoginInput{Login: "reader", Password: "Changed123"})
	assert.NoError(t, err)
}

func TestService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	admin, created, err := f.service.EnsureAdmin(ctx, auth.RegisterInput{Username: "root", Email: "root@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, sec.RoleAdmin, admin.Role)

	member := register(t, f, "reader", "reader@example.com")
	f.users.byID[member.ID].IsActive = false

	promoted, created, err := f.service.EnsureAdmin(ctx, auth.RegisterInput{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, member.ID, promoted.ID)
	assert.Equal(t, sec.RoleAdmin, f.users.byID[member.ID].Role)
	assert.True(t, f.users.byID[member.ID].IsActive)
}
