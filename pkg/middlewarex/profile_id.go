package middlewarex

import (
	"net/http"

	"flea_market/pkg/contextx"
)

const HeaderProfileID = "X-Profile-Id"

// ProfileID puts the caller's profile id into the request context. Requests
// without the header pass through untouched; handlers that need a profile
// reject them.
func ProfileID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := r.Header.Get(HeaderProfileID)
		if profileID == "" {
			next.ServeHTTP(w, r)

			return
		}

		ctx := contextx.WithProfileID(r.Context(), contextx.ProfileID(profileID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
