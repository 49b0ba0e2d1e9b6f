package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// UsernameKey is the context key for storing the authenticated username.
	UsernameKey contextKey = "username"
)

// Identity is the caller resolved from the session cookie.
type Identity struct {
	UserID   string
	Username string
}

// Authenticated reports whether the identity belongs to a logged-in user.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetUsername extracts the username from the context.
// Returns empty string if not found.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(UsernameKey).(string)
	return username
}

// CurrentIdentity returns the caller stored in ctx. The zero Identity means anonymous.
func CurrentIdentity(ctx context.Context) Identity {
	return Identity{UserID: GetUserID(ctx), Username: GetUsername(ctx)}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id.UserID)
	return context.WithValue(ctx, UsernameKey, id.Username)
}

// UserLookup resolves the user a session token names.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Session validates the session cookie if present, but allows requests without
// one. Invalid or expired tokens are treated as anonymous, and so are valid
// tokens whose user no longer exists. A nil users skips the lookup.
func Session(jwtManager *auth.JWTManager, cookieName string, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := sessionIdentity(r, jwtManager, cookieName, users); ok {
				r = r.WithContext(WithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionIdentity(r *http.Request, jwtManager *auth.JWTManager, cookieName string, users UserLookup) (Identity, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return Identity{}, false
	}
	claims, err := jwtManager.Validate(cookie.Value)
	if err != nil {
		return Identity{}, false
	}

	id := Identity{UserID: claims.UserID, Username: claims.Username}
	if users == nil {
		return id, true
	}

	user, err := users.GetUserByID(r.Context(), claims.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return Identity{}, false
	case err != nil:
		// store trouble surfaces in the handler; keep the token's identity
		return id, true
	}
	id.Username = user.Username
	return id, true
}

// RequireLogin redirects anonymous callers to loginURL with the requested
// path in the next parameter.
func RequireLogin(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !CurrentIdentity(r.Context()).Authenticated() {
				http.Redirect(w, r, LoginRedirect(loginURL, r.URL.RequestURI()), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRedirect builds loginURL?next=path. Slashes in path are left unescaped,
// so /create/ yields /login/?next=/create/.
func LoginRedirect(loginURL, path string) string {
	next := strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + next
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
