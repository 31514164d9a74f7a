package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitterlink/backend/internal/models"
)

// OpenBookingLimit caps how many pending bookings a parent may hold at once,
// so one account cannot claim a sitter's whole calendar before anything is
// confirmed. Applies to parents only; other roles pass through.
func OpenBookingLimit(pool *pgxpool.Pool, max int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromCtx(r.Context())
			if p == nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			if p.Role != models.RoleParent {
				next.ServeHTTP(w, r)
				return
			}

			open, err := openBookingsFn(r, pool, p.AccountID)
			if err != nil {
				http.Error(w, `{"error":"failed to check open bookings"}`, http.StatusInternalServerError)
				return
			}
			if open >= max {
				http.Error(w, fmt.Sprintf(`{"error":"too many open bookings","message":"you already have %d pending bookings (limit %d)"}`, open, max), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// openBookingsFn counts the parent's pending bookings.
// Tests can replace this to avoid hitting a real database.
var openBookingsFn = defaultOpenBookings

func defaultOpenBookings(r *http.Request, pool *pgxpool.Pool, parentID uuid.UUID) (int, error) {
	var n int
	err := pool.QueryRow(r.Context(), `
		SELECT COUNT(*) FROM bookings
		WHERE parent_id = $1 AND status = 'pending'
	`, parentID).Scan(&n)
	return n, err
}
