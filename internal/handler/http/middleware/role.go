package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/senani-kuruwita/attendance-backend/internal/domain/employee"
	"github.com/senani-kuruwita/attendance-backend/internal/handler/http/response"
)

// RequireAdmin requires the shop administrator role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r) != employee.RoleAdmin {
			response.Forbidden(w, "Administrator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserID extracts user_id from the verified token
func UserID(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// Role extracts the role claim from the verified token
func Role(r *http.Request) employee.Role {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if role, ok := claims["role"].(string); ok {
		return employee.Role(role)
	}
	return ""
}
