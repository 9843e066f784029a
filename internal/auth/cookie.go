package auth

import (
	"net/http"
)

// SessionCookieName имя cookie, в которой хранится сессионный токен
const SessionCookieName = "token"

// Cookie собирает cookie сессии: HttpOnly, Path=/, SameSite=Strict, MaxAge = TTL
func (s *SessionIssuer) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredCookie cookie, которая удаляет сессию в браузере
func (s *SessionIssuer) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

// TokenFromRequest достает токен из cookie запроса. Пустое значение считается отсутствием.
func TokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
