package middleware

import (
	"net/http"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/pkg/response"
)

// RequireRole creates a middleware that checks if the principal holds any of the required roles
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !p.HasRole(allowed...) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin is a convenience middleware for super-admin-only endpoints
func RequireSuperAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleSuperAdmin)(next)
}

// RequireClinicManager allows SUPER_ADMIN and ADMIN
func RequireClinicManager(next http.Handler) http.Handler {
	return RequireRole(entity.RolesClinicManager...)(next)
}

// RequireFrontDesk allows SUPER_ADMIN, ADMIN and STAFF
func RequireFrontDesk(next http.Handler) http.Handler {
	return RequireRole(entity.RolesFrontDesk...)(next)
}

// RequireClinician allows SUPER_ADMIN, ADMIN and DOCTOR
func RequireClinician(next http.Handler) http.Handler {
	return RequireRole(entity.RolesClinician...)(next)
}
