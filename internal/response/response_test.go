package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"badgehub/internal/contextutils"
	"badgehub/internal/models"
	"badgehub/internal/services"
	"badgehub/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteSuccessIncludesRequestID(t *testing.T) {
	b := NewBuilder(DefaultConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(contextutils.WithRequestID(req.Context(), "req-1"))
	rec := httptest.NewRecorder()

	b.WriteSuccess(rec, req, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "v1", resp.Version)
}

func TestWriteErrorMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		errType string
		message string
	}{
		{"not found", services.EntityNotFoundError("badge", "9"), http.StatusNotFound, services.ErrTypeNotFound, "badge not found"},
		{"provider", services.NewProviderUnavailableError("install a wallet"), http.StatusServiceUnavailable, services.ErrTypeProviderUnavailable, "install a wallet"},
		{"plain error masked", errors.New("boom"), http.StatusInternalServerError, services.ErrTypeInternal, "An unexpected error occurred"},
		{"internal masked", services.NewInternalError("db exploded"), http.StatusInternalServerError, services.ErrTypeInternal, "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(DefaultConfig(), nil)
			rec := httptest.NewRecorder()
			b.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.errType, resp.Error.Type)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestWriteErrorListsValidationFields(t *testing.T) {
	form := &models.BadgeCreationForm{Category: models.CategorySkill, Rarity: "Mythic", MaxSupply: 1}
	cause := validation.ValidateStruct(form)
	require.Error(t, cause)

	b := NewBuilder(DefaultConfig(), nil)
	rec := httptest.NewRecorder()
	b.WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), services.NewValidationError("invalid badge form", cause))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)

	codes := map[string]string{}
	for _, f := range resp.Error.Fields {
		codes[f.Field] = f.Code
	}
	assert.Equal(t, "required", codes["name"])
	assert.Equal(t, "badge_rarity", codes["rarity"])
}

func TestDevelopmentConfigShowsInternalMessages(t *testing.T) {
	b := NewBuilder(DevelopmentConfig(), nil)
	rec := httptest.NewRecorder()
	b.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	assert.Equal(t, "boom", decode(t, rec).Error.Message)
}

func TestQuickHelpersUseContextBuilder(t *testing.T) {
	b := NewBuilder(&Config{APIVersion: "test"}, nil)
	handler := Middleware(b)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		QuickSuccess(w, r, "ok")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "test", decode(t, rec).Version)

	// Without the middleware a default builder is used.
	rec = httptest.NewRecorder()
	QuickError(rec, httptest.NewRequest(http.MethodGet, "/", nil), services.NewUnauthorizedError("connect a wallet"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
