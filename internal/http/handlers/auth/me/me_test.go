package me

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Profile(ctx context.Context, userID string) (*models.PublicUser, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.PublicUser)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const userID = "22222222-2222-2222-2222-222222222222"

func TestMeHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		withIdentity   bool
		mockResp       *models.PublicUser
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "success",
			withIdentity:   true,
			mockResp:       &models.PublicUser{ID: userID, Email: "teacher@uni.edu", Role: models.RoleTeacher, Active: true},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no identity",
			withIdentity:   false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "authentication required",
		},
		{
			name:           "user vanished",
			withIdentity:   true,
			mockErr:        apperr.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
		},
		{
			name:           "store failure",
			withIdentity:   true,
			mockErr:        apperr.StoreFailure(errors.New("timeout")),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			if tt.withIdentity {
				service.On("Profile", mock.Anything, userID).Return(tt.mockResp, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.withIdentity {
				req = req.WithContext(middlewarectx.WithIdentity(req.Context(),
					models.Identity{ID: userID, Email: "teacher@uni.edu", Role: models.RoleTeacher}))
			}
			rec := httptest.NewRecorder()

			New(newNoopLogger(), service).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			service.AssertExpectations(t)

			raw := rec.Body.String()
			assert.NotContains(t, raw, "passwordHash")
			assert.NotContains(t, raw, "PasswordHash")

			var got map[string]any
			require.NoError(t, json.Unmarshal([]byte(raw), &got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
				return
			}
			data := got["data"].(map[string]any)
			user := data["user"].(map[string]any)
			assert.Equal(t, userID, user["id"])
			assert.Equal(t, "TEACHER", user["role"])
		})
	}
}
