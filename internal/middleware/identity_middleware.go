package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/internal/service"
)

type contextKey string

// StaffContextKey is the request context key holding the resolved staff record
const StaffContextKey contextKey = "staff"

// IdentityMiddleware resolves the acting staff member from the identity
// headers and stores the record in the request context. There are no
// sessions or tokens; an email or username header is looked up per request.
// Requests without headers proceed with no identity, which downstream
// treats as unrestricted.
func IdentityMiddleware(staffService service.StaffService, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := r.Header.Get("X-Staff-Email")
			username := r.Header.Get("X-Staff-Username")

			if email == "" && username == "" {
				next.ServeHTTP(w, r)
				return
			}

			staff, err := staffService.Identify(r.Context(), email, username)
			if err != nil {
				logger.Warnf("Failed to resolve staff identity (email=%q username=%q): %v", email, username, err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), StaffContextKey, staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffFromContext extracts the resolved staff record, nil when absent
func StaffFromContext(ctx context.Context) *models.Staff {
	staff, _ := ctx.Value(StaffContextKey).(*models.Staff)
	return staff
}
