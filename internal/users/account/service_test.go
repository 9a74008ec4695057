package account_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/validate"
	"github.com/nathanpasca/manov-sub001/internal/users/account"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

type memoryRepository struct {
	users   map[string]*auth.User
	updates int
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryRepository) Update(_ context.Context, user *auth.User) error {
	repository.updates++
	copied := *user
	repository.users[user.ID] = &copied
	return nil
}

func newService() (*account.Service, *memoryRepository) {
	repo := &memoryRepository{users: map[string]*auth.User{
		"u1": {ID: "u1", Username: "reader", PreferredLanguage: "en", AvatarURL: pointer.To("https://cdn.example.com/a.png")},
	}}
	return account.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a field", func(t *testing.T) {
		service, repo := newService()
		_, err := service.UpdateProfile(ctx, "u1", account.UpdateProfileInput{ReadingPreferences: json.RawMessage("null")})
		assert.Equal(t, validate.ErrNoFields, err)
		assert.Zero(t, repo.updates)
	})

	t.Run("applies changes", func(t *testing.T) {
		service, repo := newService()
		user, err := service.UpdateProfile(ctx, "u1", account.UpdateProfileInput{
			DisplayName:        pointer.To("  Night Reader "),
			AvatarURL:          pointer.To(""),
			PreferredLanguage:  pointer.To("id"),
			ReadingPreferences: json.RawMessage(`{"font_size":18,"theme":"dark"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "Night Reader", pointer.Val(user.DisplayName))
		assert.Nil(t, user.AvatarURL)
		assert.Equal(t, "id", user.PreferredLanguage)
		assert.Equal(t, "dark", user.ReadingPreferences["theme"])
		assert.Equal(t, 1, repo.updates)
	})

	t.Run("field rules", func(t *testing.T) {
		tests := []struct {
			name  string
			input account.UpdateProfileInput
			field string
		}{
			{"blank display name", account.UpdateProfileInput{DisplayName: pointer.To(" ")}, auth.FieldDisplayName},
			{"avatar url", account.UpdateProfileInput{AvatarURL: pointer.To("ftp://x")}, account.FieldAvatarURL},
			{"language length", account.UpdateProfileInput{PreferredLanguage: pointer.To("e")}, auth.FieldPreferredLanguage},
			{"preferences array", account.UpdateProfileInput{ReadingPreferences: json.RawMessage(`[1,2]`)}, account.FieldReadingPreferences},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service, _ := newService()
				_, err := service.UpdateProfile(ctx, "u1", tt.input)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
				require.NotEmpty(t, ae.Details)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			})
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		service, _ := newService()
		_, err := service.UpdateProfile(ctx, "ghost", account.UpdateProfileInput{DisplayName: pointer.To("Ghost")})
		assert.True(t, apperr.IsNotFound(err))
	})
}
