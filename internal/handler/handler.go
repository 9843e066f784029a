package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/InviteLink/internal/auth"
	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/GoArmGo/InviteLink/internal/usecase"
)

// лимит тела запроса: аватар до 2 МиБ в base64 плюс поля формы
const maxBodyBytes = 4 << 20

// UserHandler обработчик HTTP-запросов входа, профиля и реферальных связей.
type UserHandler struct {
	identity usecase.IdentityUseCase
	profiles usecase.ProfileUseCase
	sessions *auth.SessionIssuer
	logger   *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(
	identity usecase.IdentityUseCase,
	profiles usecase.ProfileUseCase,
	sessions *auth.SessionIssuer,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		identity: identity,
		profiles: profiles,
		sessions: sessions,
		logger:   logger,
	}
}

// respondWithJSON отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]any{"success": false, "message": message}, logger)
}

// statusFor сопоставляет ошибку домена с HTTP-статусом и коротким сообщением для клиента
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, "bad request"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "password wrong"
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "invalid or expired session"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "already exists"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// logFailure пишет 5xx как error, остальное как warn
func (h *UserHandler) logFailure(endpoint string, code int, err error, args ...any) {
	args = append(args, "endpoint", endpoint, "status", code, "error", err)
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", args...)
		return
	}
	h.logger.Warn("request rejected", args...)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(domain.ErrBadRequest, err)
	}
	return nil
}
