package language_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/core/language"
	"github.com/nathanpasca/manov-sub001/internal/platform/apperr"
	"github.com/nathanpasca/manov-sub001/internal/platform/ctxutil"
	"github.com/nathanpasca/manov-sub001/internal/platform/sec"
	"github.com/nathanpasca/manov-sub001/pkg/pointer"
)

// memoryRepository is an in-memory language.Repository.
type memoryRepository struct {
	rows   map[int]*language.Language
	nextID int
	inUse  map[int]bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[int]*language.Language{}, nextID: 1, inUse: map[int]bool{}}
}

func (repository *memoryRepository) ListLanguages(_ context.Context, filter language.Filter) ([]*language.Language, error) {
	var out []*language.Language
	for _, l := range repository.rows {
		if filter.IsActive != nil && l.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (repository *memoryRepository) GetLanguage(_ context.Context, id int) (*language.Language, error) {
	if l, ok := repository.rows[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, apperr.NotFound(fmt.Sprintf("Language with ID %d", id))
}

func (repository *memoryRepository) GetLanguageByCode(_ context.Context, code string) (*language.Language, error) {
	for _, l := range repository.rows {
		if l.Code == code {
			copied := *l
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Language")
}

func (repository *memoryRepository) CreateLanguage(_ context.Context, l *language.Language) error {
	for _, existing := range repository.rows {
		if existing.Code == l.Code {
			return apperr.Conflict(fmt.Sprintf("Language with code '%s' already exists", l.Code))
		}
	}
	l.ID = repository.nextID
	repository.nextID++
	copied := *l
	repository.rows[l.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateLanguage(_ context.Context, l *language.Language) error {
	if _, ok := repository.rows[l.ID]; !ok {
		return apperr.NotFound("Language")
	}
	copied := *l
	repository.rows[l.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteLanguage(_ context.Context, id int) error {
	if _, ok := repository.rows[id]; !ok {
		return apperr.NotFound("Language")
	}
	if repository.inUse[id] {
		return apperr.Conflict("still in use")
	}
	delete(repository.rows, id)
	return nil
}

func newService() (*language.Service, *memoryRepository) {
	repo := newMemoryRepository()
	return language.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func status(err error) int {
	if ae := apperr.As(err); ae != nil {
		return ae.HTTPStatus
	}
	return 0
}

/*
TestService_CreateLanguage covers field rules and code uniqueness.
*/
func TestService_CreateLanguage(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	created, err := service.CreateLanguage(ctx, language.CreateInput{Code: "PT_BR", Name: "Portuguese", NativeName: pointer.To("Português")})
	require.NoError(t, err)
	assert.Equal(t, "pt-br", created.Code)
	assert.True(t, created.IsActive)

	_, err = service.CreateLanguage(ctx, language.CreateInput{Code: "pt-br", Name: "Brazilian"})
	assert.Equal(t, http.StatusConflict, status(err))

	tests := []struct {
		name  string
		input language.CreateInput
		field string
	}{
		{"missing code", language.CreateInput{Name: "English"}, language.FieldCode},
		{"code too long", language.CreateInput{Code: "english-uk-x", Name: "English"}, language.FieldCode},
		{"code with digits", language.CreateInput{Code: "e1", Name: "English"}, language.FieldCode},
		{"short name", language.CreateInput{Code: "en", Name: "E"}, language.FieldName},
		{"long native", language.CreateInput{Code: "en", Name: "English", NativeName: pointer.To(strings.Repeat("x", 51))}, language.FieldNativeName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateLanguage(ctx, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

/*
TestService_UpdateLanguage requires at least one field and applies partial changes.
*/
func TestService_UpdateLanguage(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	created, err := service.CreateLanguage(ctx, language.CreateInput{Code: "id", Name: "Indonesian"})
	require.NoError(t, err)

	_, err = service.UpdateLanguage(ctx, created.ID, language.UpdateInput{})
	assert.Equal(t, http.StatusBadRequest, status(err))

	updated, err := service.UpdateLanguage(ctx, created.ID, language.UpdateInput{IsActive: pointer.To(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Indonesian", updated.Name)

	_, err = service.UpdateLanguage(ctx, 999, language.UpdateInput{Name: pointer.To("Nothing")})
	assert.Equal(t, http.StatusNotFound, status(err))
}

/*
TestService_GetLanguageAndIsActive resolves by ID or code.
*/
func TestService_GetLanguageAndIsActive(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	en, err := service.CreateLanguage(ctx, language.CreateInput{Code: "en", Name: "English"})
	require.NoError(t, err)
	_, err = service.CreateLanguage(ctx, language.CreateInput{Code: "la", Name: "Latin", IsActive: pointer.To(false)})
	require.NoError(t, err)

	byID, err := service.GetLanguage(ctx, fmt.Sprint(en.ID))
	require.NoError(t, err)
	assert.Equal(t, "en", byID.Code)

	byCode, err := service.GetLanguage(ctx, "EN")
	require.NoError(t, err)
	assert.Equal(t, en.ID, byCode.ID)

	active, err := service.IsActive(ctx, "en")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = service.IsActive(ctx, "la")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = service.IsActive(ctx, "xx")
	require.NoError(t, err)
	assert.False(t, active)
}

/*
TestHandler_Routes checks role enforcement and the delete conflict.
*/
func TestHandler_Routes(t *testing.T) {
	service, repo := newService()
	en, err := service.CreateLanguage(context.Background(), language.CreateInput{Code: "en", Name: "English"})
	require.NoError(t, err)
	repo.inUse[en.ID] = true

	router := chi.NewRouter()
	router.Route("/languages", language.NewHandler(service).RegisterRoutes)

	asRole := func(request *http.Request, role sec.UserRole) *http.Request {
		return request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u", Role: string(role)}))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/languages?isActive=true", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"en"`)

	recorder = httptest.NewRecorder()
	body := strings.NewReader(`{"code":"ja","name":"Japanese"}`)
	router.ServeHTTP(recorder, asRole(httptest.NewRequest(http.MethodPost, "/languages", body), sec.RoleMember))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	body = strings.NewReader(`{"code":"ja","name":"Japanese"}`)
	router.ServeHTTP(recorder, asRole(httptest.NewRequest(http.MethodPost, "/languages", body), sec.RoleAdmin))
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, asRole(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/languages/%d", en.ID), nil), sec.RoleAdmin))
	assert.Equal(t, http.StatusConflict, recorder.Code)
}
