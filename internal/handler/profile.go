package handler

import (
	"net/http"

	"github.com/GoArmGo/InviteLink/internal/auth"
	"github.com/GoArmGo/InviteLink/internal/domain"
	"github.com/GoArmGo/InviteLink/internal/usecase"
)

// LoginPath страница, на которую отправляется запрос профиля без cookie
const LoginPath = "/login"

type profileResponse struct {
	Data     *domain.User  `json:"data"`
	Inviter  *domain.User  `json:"inviter,omitempty"`
	Invitees []domain.User `json:"invitees"`
}

type updateProfileRequest struct {
	FormData *struct {
		ProfilePicture *string `json:"profilePicture"`
	} `json:"formData"`
}

// GetProfile возвращает профиль владельца сессии вместе с пригласившим и приглашенными.
// Без cookie запрос перенаправляется на страницу входа.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.TokenFromRequest(r); !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	username, ok := h.sessionUser(w, r, "GetProfile")
	if !ok {
		return
	}

	profile, err := h.profiles.ResolveProfile(r.Context(), username)
	if err != nil {
		code, msg := statusFor(err)
		h.logFailure("GetProfile", code, err, "username", username)
		respondWithJSON(w, code, map[string]any{"message": msg, "data": struct{}{}}, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, profileResponse{
		Data:     profile.User,
		Inviter:  profile.Inviter,
		Invitees: profile.Invitees,
	}, h.logger)
}

// UpdateProfile обновляет аватар владельца сессии. Username и реферал не меняются.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	username, ok := h.sessionUser(w, r, "UpdateProfile")
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil || req.FormData == nil {
		h.logger.Warn("invalid profile update payload", "username", username, "error", err)
		respondWithError(w, http.StatusBadRequest, "bad request", h.logger)
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(), username, usecase.ProfileUpdate{
		ProfilePicture: req.FormData.ProfilePicture,
	})
	if err != nil {
		code, msg := statusFor(err)
		h.logFailure("UpdateProfile", code, err, "username", username)
		respondWithError(w, code, msg, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"message": "Profile update successfully",
		"data":    user,
	}, h.logger)
}

// FetchLinkUsers возвращает пользователей, зарегистрированных по ссылке username.
// Массив users присутствует в ответе всегда, даже при ошибке.
func (h *UserHandler) FetchLinkUsers(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		h.logger.Warn("missing required parameter", "param", "username")
		respondWithJSON(w, http.StatusBadRequest, map[string]any{"message": "Bad request", "users": []domain.User{}}, h.logger)
		return
	}

	users, err := h.profiles.ListReferredBy(r.Context(), username)
	if err != nil {
		code, _ := statusFor(err)
		h.logFailure("FetchLinkUsers", code, err, "username", username)
		respondWithJSON(w, code, map[string]any{"message": "Internal server issue", "users": []domain.User{}}, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"users": users}, h.logger)
}

// FetchSenderData возвращает публичные данные пригласившего для страницы входа.
func (h *UserHandler) FetchSenderData(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		h.logger.Warn("missing required parameter", "param", "username")
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"}, h.logger)
		return
	}

	user, err := h.profiles.GetByUsername(r.Context(), username)
	if err != nil {
		code, msg := statusFor(err)
		h.logFailure("FetchSenderData", code, err, "username", username)
		respondWithJSON(w, code, map[string]any{"message": msg, "user": struct{}{}}, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"user": user}, h.logger)
}

// Health отвечает на проверку живости процесса.
func (h *UserHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}
