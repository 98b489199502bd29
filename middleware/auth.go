package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/dcode-github/property_listing_web/session"
	"github.com/dcode-github/property_listing_web/utils"
)

type ContextKey string

const SessionKey = ContextKey("session")

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Message: message})
}

// WithSession stores s in ctx for downstream handlers.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

func SessionFrom(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*session.Session)
	return s, ok && s != nil
}

// Session resolves the browser session from its signed cookie. A missing or
// invalid cookie gets a fresh session id.
func Session(cookieName string, signer *utils.SessionSigner, manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if cookie, err := r.Cookie(cookieName); err == nil {
				claims, err := signer.Validate(cookie.Value)
				if err != nil {
					log.Printf("Invalid session cookie from %s: %v", r.RemoteAddr, err)
				} else {
					sid = claims.SessionID
				}
			}

			if sid == "" {
				sid = session.NewSessionID()
				value, err := signer.Generate(sid)
				if err != nil {
					log.Printf("Error signing session cookie: %v", err)
					writeError(w, http.StatusInternalServerError, "Failed to start session")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    value,
					Path:     "/",
					MaxAge:   int(signer.TTL().Seconds()),
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}

			s := manager.Get(r.Context(), sid)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireUser rejects requests whose session has no logged in user.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFrom(r.Context())
		if !ok {
			log.Printf("Session missing in context for %s %s", r.Method, r.URL.Path)
			writeError(w, http.StatusUnauthorized, session.ErrNotAuthenticated.Error())
			return
		}
		if _, ok := s.User(); !ok {
			log.Printf("Unauthenticated request %s %s from session %s", r.Method, r.URL.Path, s.ID())
			writeError(w, http.StatusUnauthorized, session.ErrNotAuthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
