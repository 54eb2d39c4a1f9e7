package role

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/university-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/university-portal/internal/lib/apperr"
	"github.com/magabrotheeeer/university-portal/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SetRole(ctx context.Context, actor models.Identity, id string, role models.Role) (*models.PublicUser, error) {
	args := m.Called(ctx, actor, id, role)
	if res := args.Get(0); res != nil {
		return res.(*models.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}

const (
	adminID   = "11111111-1111-1111-1111-111111111111"
	teacherID = "22222222-2222-2222-2222-222222222222"
)

func TestRoleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	admin := models.Identity{ID: adminID, Email: "admin@uni.edu", Role: models.RoleAdmin}

	tests := []struct {
		name           string
		url            string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "повышение до администратора",
			url:  "/users/" + teacherID + "/role",
			body: `{"role":"admin"}`,
			setupMock: func(m *MockService) {
				m.On("SetRole", mock.Anything, admin, teacherID, models.RoleAdmin).
					Return(&models.PublicUser{ID: teacherID, Role: models.RoleAdmin, Active: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"role":"ADMIN"`,
		},
		{
			name:           "неизвестная роль",
			url:            "/users/" + teacherID + "/role",
			body:           `{"role":"DEAN"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"role":"must be one of ADMIN, TEACHER, STUDENT"`,
		},
		{
			name:           "роль не указана",
			url:            "/users/" + teacherID + "/role",
			body:           `{}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"role":"is a required field"`,
		},
		{
			name: "снятие роли с самого себя",
			url:  "/users/" + adminID + "/role",
			body: `{"role":"TEACHER"}`,
			setupMock: func(m *MockService) {
				m.On("SetRole", mock.Anything, admin, adminID, models.RoleTeacher).
					Return(nil, apperr.Validation("you cannot remove your own admin role", nil)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"you cannot remove your own admin role"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			r := chi.NewRouter()
			r.Patch("/users/{id}/role", New(logger, mockService).ServeHTTP)

			req := httptest.NewRequest(http.MethodPatch, tt.url, strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), admin))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
