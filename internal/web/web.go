// Package web отдает страницы входа и профиля. Страницы статические,
// все данные они получают из JSON API под /api.
package web

import (
	"embed"
	"net/http"
)

//go:embed static/*.html
var static embed.FS

// LoginPage страница входа и регистрации, понимает параметр invitelink
func LoginPage(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "static/login.html")
}

// ProfilePage страница профиля с пригласившим и приглашенными
func ProfilePage(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "static/profile.html")
}

func serve(w http.ResponseWriter, r *http.Request, name string) {
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFileFS(w, r, static, name)
}
