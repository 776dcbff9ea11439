package core

import (
	"context"

	"github.com/clf-downloader/clf/internal/types"
)

// ProgressService defines the two server operations the poller depends on.
// This abstraction lets the poller run against the HTTP server or a fake.
type ProgressService interface {
	// Downloads returns the set of downloads currently in progress.
	// An empty snapshot means nothing is in progress.
	Downloads(ctx context.Context) (types.Snapshot, error)

	// Trigger asks the server to start a download. The response body is not inspected.
	Trigger(ctx context.Context, req types.TriggerRequest) error
}

type requestIDKey struct{}

// WithRequestID tags ctx so outgoing requests carry an X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
