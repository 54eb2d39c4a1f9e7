package status

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

func (m *MockService) SetActive(ctx context.Context, actor models.Identity, id string, active bool) (*models.PublicUser, error) {
	args := m.Called(ctx, actor, id, active)
	if res := args.Get(0); res != nil {
		return res.(*models.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}

const (
	adminID   = "11111111-1111-1111-1111-111111111111"
	teacherID = "22222222-2222-2222-2222-222222222222"
)

var admin = models.Identity{ID: adminID, Email: "admin@uni.edu", Role: models.RoleAdmin}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		url            string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "отключение преподавателя",
			url:  "/users/" + teacherID + "/status",
			body: `{"active":false}`,
			setupMock: func(m *MockService) {
				m.On("SetActive", mock.Anything, admin, teacherID, false).
					Return(&models.PublicUser{ID: teacherID, Role: models.RoleTeacher, Active: false}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"active":false`,
		},
		{
			name: "включение преподавателя",
			url:  "/users/" + teacherID + "/status",
			body: `{"active":true}`,
			setupMock: func(m *MockService) {
				m.On("SetActive", mock.Anything, admin, teacherID, true).
					Return(&models.PublicUser{ID: teacherID, Role: models.RoleTeacher, Active: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"active":true`,
		},
		{
			name:           "поле active отсутствует",
			url:            "/users/" + teacherID + "/status",
			body:           `{}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"details":{"active":"is a required field"}`,
		},
		{
			name:           "некорректный JSON",
			url:            "/users/" + teacherID + "/status",
			body:           `{"active":`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "некорректный id",
			url:            "/users/42/status",
			body:           `{"active":false}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `must be a valid uuid`,
		},
		{
			name: "отключение самого себя",
			url:  "/users/" + adminID + "/status",
			body: `{"active":false}`,
			setupMock: func(m *MockService) {
				m.On("SetActive", mock.Anything, admin, adminID, false).
					Return(nil, apperr.Validation("you cannot deactivate your own account", nil)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"you cannot deactivate your own account"`,
		},
		{
			name: "пользователь не найден",
			url:  "/users/" + teacherID + "/status",
			body: `{"active":true}`,
			setupMock: func(m *MockService) {
				m.On("SetActive", mock.Anything, admin, teacherID, true).Return(nil, apperr.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			r := chi.NewRouter()
			r.Patch("/users/{id}/status", New(logger, mockService).ServeHTTP)

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
