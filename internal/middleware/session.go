package middleware

import (
	"net/http"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/service"
)

// SessionCookieName is the shopper session cookie.
const SessionCookieName = "kasuwa_session"

// Session attaches a shopper session token to every request. A missing
// or empty cookie gets a fresh token, set on the response.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			token = cookie.Value
		} else {
			generated, err := service.GenerateSessionID()
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			token = generated
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := domain.NewContextWithSession(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
