package logout

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/models"
)

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middlewarectx.WithIdentity(req.Context(),
		models.Identity{ID: "u1", Email: "admin@uni.edu", Role: models.RoleAdmin}))
	rec := httptest.NewRecorder()

	New(log).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "logged out successfully", got["message"])
}
