package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey  contextKey = "userID"
	isAdminKey contextKey = "isAdmin"
)

// WithUser adds the authenticated user's identity to the request context
func WithUser(r *http.Request, userID string, isAdmin bool) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, isAdminKey, isAdmin)
	return r.WithContext(ctx)
}

// GetUserID retrieves the user ID from context, empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// IsAdmin reports whether the authenticated caller has the admin flag
func IsAdmin(r *http.Request) bool {
	isAdmin, _ := r.Context().Value(isAdminKey).(bool)
	return isAdmin
}
