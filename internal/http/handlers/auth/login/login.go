// Package login реализует HTTP-обработчик входа в панель управления.
//
// Обработчик декодирует и валидирует email и пароль, делегирует проверку
// учётных данных сервису и возвращает публичное представление пользователя
// вместе с сессионным токеном.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/university-portal/internal/http/response"
	"github.com/magabrotheeeer/university-portal/internal/lib/sl"
	"github.com/magabrotheeeer/university-portal/internal/lib/validation"
	"github.com/magabrotheeeer/university-portal/internal/services/auth"
)

// Request — входные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email" example:"admin@university.edu"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

// LogValue скрывает пароль при логировании запроса.
func (r Request) LogValue() slog.Value {
	return slog.GroupValue(slog.String("email", r.Email))
}

// Handler обрабатывает HTTP-запросы на вход.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор входных данных
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в панель управления
// @Description Проверяет email и пароль, возвращает пользователя и JWT. Студенты входить не могут.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response{data=auth.LoginResult} "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверный email или пароль"
// @Failure 403 {object} response.ErrorResponse "Роли запрещён вход"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// Тело, которое не удалось разобрать, проверяется как пустое:
	// клиент получает список обязательных полей.
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		req = Request{}
	}
	log.Debug("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", sl.Email(req.Email), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("login success", sl.UserID(res.User.ID))
	render.JSON(w, r, response.OKWithData(res))
}
