package router

import (
	"log/slog"
	"net/http"

	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
)

// Authorize allows the request only when the caller role may perform act
// on obj according to the casbin policy.
func (r *Router) Authorize(obj, act string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			claims := jwt.GetAuth(req.Context())
			if claims == nil {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			if r.enforcer == nil {
				writeJSON(w, errorResponse{Message: "Forbidden"}, http.StatusForbidden)
				return
			}

			ok, err := r.enforcer.Enforce(claims.Role, obj, act)
			if err != nil {
				slog.ErrorContext(req.Context(), "failed to enforce policy", "role", claims.Role, "obj", obj, "act", act, "error", err)
				writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
				return
			}
			if !ok {
				writeJSON(w, errorResponse{Message: "Forbidden"}, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
