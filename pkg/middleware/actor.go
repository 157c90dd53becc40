package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ActorHeader carries the authenticated user ID set by the gateway in front of the API.
const ActorHeader = "X-User-ID"

type actorKey struct{}

// Actor copies the acting user from ActorHeader into the request context.
// Requests without the header pass through with no actor; handlers that act on
// behalf of a user reject them.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
			r = r.WithContext(WithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor returns a context carrying actor.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting user, or "" if none was supplied.
func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
