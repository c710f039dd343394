package httpapi

import (
	"net/http"
	"strings"

	"github.com/warmnest/warmnest/internal/platform/authtoken"
	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
	"github.com/warmnest/warmnest/internal/platform/requestctx"
)

// withSession resolves the bearer token, when one is presented, into the
// request context. Requests without a token pass through anonymously; a
// token that fails verification is rejected here so handlers never see a
// half-authenticated request.
func (a *API) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			a.writeError(w, apperrors.New(apperrors.CodeUnauthorized, "authorization header must be a bearer token"))
			return
		}
		userID, err := authtoken.Verify(a.sessions, token)
		if err != nil {
			a.writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithUserID(r.Context(), userID)))
	})
}

// requireUser returns the authenticated user id or writes a 401.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" {
		a.writeError(w, apperrors.New(apperrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return userID, true
}
