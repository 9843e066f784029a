package handler

import (
	"net/http"

	"github.com/GoArmGo/InviteLink/internal/auth"
	"github.com/GoArmGo/InviteLink/internal/usecase"
)

type loginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Created bool   `json:"created"`
}

// Login выполняет вход по username/password, неизвестный username регистрируется.
// Инвайт передается параметром invitelink.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logFailure("Login", http.StatusBadRequest, err)
		respondWithError(w, http.StatusBadRequest, "bad request", h.logger)
		return
	}

	res, err := h.identity.Authenticate(r.Context(), usecase.AuthenticateInput{
		Username: req.Username,
		Password: req.Password,
		Inviter:  r.URL.Query().Get("invitelink"),
		Avatar:   req.ProfilePhoto,
	})
	if err != nil {
		code, msg := statusFor(err)
		h.logFailure("Login", code, err, "username", req.Username)
		respondWithError(w, code, msg, h.logger)
		return
	}

	token, err := h.sessions.Issue(res.User.Username)
	if err != nil {
		h.logFailure("Login", http.StatusInternalServerError, err, "username", res.User.Username)
		respondWithError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}
	http.SetCookie(w, h.sessions.Cookie(token))

	h.logger.Info("session issued", "username", res.User.Username, "created", res.Created)
	respondWithJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "login successfully",
		Created: res.Created,
	}, h.logger)
}

// CheckToken проверяет сессию полностью: подпись, издателя и срок действия.
func (h *UserHandler) CheckToken(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.TokenFromRequest(r)
	if !ok {
		respondWithJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "token not found"}, h.logger)
		return
	}

	if _, err := h.sessions.Verify(token); err != nil {
		code, msg := statusFor(err)
		h.logFailure("CheckToken", code, err)
		http.SetCookie(w, h.sessions.ExpiredCookie())
		respondWithError(w, code, msg, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true}, h.logger)
}

// Logout удаляет cookie сессии. Токен не отзывается, он просто перестает отправляться.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.ExpiredCookie())
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true}, h.logger)
}

// sessionUser достает владельца сессии. При ошибке ответ уже отправлен.
func (h *UserHandler) sessionUser(w http.ResponseWriter, r *http.Request, endpoint string) (string, bool) {
	token, ok := auth.TokenFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "token not found", h.logger)
		return "", false
	}

	username, err := h.sessions.Verify(token)
	if err != nil {
		code, msg := statusFor(err)
		h.logFailure(endpoint, code, err)
		http.SetCookie(w, h.sessions.ExpiredCookie())
		respondWithError(w, code, msg, h.logger)
		return "", false
	}
	return username, true
}
