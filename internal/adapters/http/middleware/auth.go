package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "admin_session"

// Session represents an authenticated admin session. The tracker has a
// single shared admin identity, so a session carries no account reference.
type Session struct {
	Token     string
	CreatedAt time.Time
}

// SessionStore is an in-memory admin session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
	}
}

// Create stores a new session and returns the token.
// POST: Session is stored, token is returned
func (ss *SessionStore) Create() string {
	token := uuid.New().String()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		Token:     token,
		CreatedAt: time.Now(),
	}
	return token
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	// Sessions expire after 24 hours
	if time.Since(session.CreatedAt) > 24*time.Hour {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

const sessionCookieName = "weighin_session"

// SecureCookies marks session cookies Secure. Enabled in production by the
// web wiring.
var SecureCookies bool

// Auth returns middleware that extracts the admin session from the cookie
// and sets it in context. It does NOT block unauthenticated requests;
// use RequireAdmin for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that blocks requests without a valid
// admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// IsAdmin checks if the request carries a valid admin session.
func IsAdmin(ctx context.Context) bool {
	_, ok := GetSessionFromContext(ctx)
	return ok
}

// SessionTokenFromRequest returns the raw session cookie value, if any.
func SessionTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400, // 24 hours
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
