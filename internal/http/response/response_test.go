package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindIncorrectPassword, http.StatusBadRequest},
		{apperr.KindSamePassword, http.StatusBadRequest},
		{apperr.KindInvalidCredentials, http.StatusUnauthorized},
		{apperr.KindUnauthenticated, http.StatusUnauthorized},
		{apperr.KindRoleNotPermitted, http.StatusForbidden},
		{apperr.KindTokenInvalid, http.StatusForbidden},
		{apperr.KindInsufficientRole, http.StatusForbidden},
		{apperr.KindRegistrationDisabled, http.StatusForbidden},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindStoreFailure, http.StatusInternalServerError},
		{apperr.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestFail(t *testing.T) {
	t.Run("client error keeps message and details", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)

		Fail(rr, req, apperr.Validation("validation failed", map[string]string{"email": "is a required field"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "validation failed", body["error"])
		assert.Equal(t, map[string]any{"email": "is a required field"}, body["details"])
	})

	t.Run("internal error hides cause without debug", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		Fail(rr, req, apperr.StoreFailure(errors.New("pq: password authentication failed")))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "internal server error", body["error"])
		assert.NotContains(t, rr.Body.String(), "password authentication")
	})

	t.Run("internal error shows cause with debug", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		var captured *http.Request
		WithDebug(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			captured = r
		})).ServeHTTP(rr, req)
		require.NotNil(t, captured)

		Fail(rr, captured, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decode(t, rr)
		assert.Equal(t, "internal server error", body["error"])
		assert.Equal(t, "boom", body["details"])
	})
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}
	err := validator.New().Struct(req{Email: "not-an-email", Password: "123"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.False(t, resp.Success)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, map[string]string{
		"Email":    "must be a valid email address",
		"Password": "must be at least 6 characters",
	}, resp.Details)
}

func TestOK(t *testing.T) {
	assert.Equal(t, Response{Success: true, Data: 1}, OKWithData(1))
	assert.Equal(t, Response{Success: true, Message: "done"}, OKWithMessage("done"))
	assert.Equal(t, Response{Success: false, Error: "nope"}, Error("nope"))
}
