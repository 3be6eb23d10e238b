package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/server/auth"
	"github.com/dmitrijs2005/savekeeper/internal/server/authz"
)

type contextKey string

const actorContextKey contextKey = "actor"

// withAuth verifies the bearer token and stores the resulting actor in the
// request context. Requests without a valid token never reach the handlers.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, r, common.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, s.secretKey)
		if err != nil {
			s.writeError(w, r, common.ErrInvalidToken)
			return
		}

		actor := authz.Actor{ID: claims.UserID, Privileges: claims.Privileges}
		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFrom extracts the authenticated actor placed by withAuth.
func actorFrom(r *http.Request) authz.Actor {
	actor, _ := r.Context().Value(actorContextKey).(authz.Actor)
	return actor
}
