// Package store holds processed dashboards between the upload request and
// the follow-up requests that read them (rankings, prompt, strategy,
// exports). Entries live under a TTL: this is transient session state, not
// durable storage — an expired dashboard simply requires re-uploading the
// export.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ignite/studio-insights/internal/pipeline"
)

// ErrNotFound is returned for unknown or expired dashboard IDs.
var ErrNotFound = errors.New("dashboard not found")

// DefaultTTL is how long a processed dashboard stays retrievable.
const DefaultTTL = 2 * time.Hour

// Store is the dashboard session store.
type Store interface {
	Put(ctx context.Context, d *pipeline.Dashboard) error
	Get(ctx context.Context, id string) (*pipeline.Dashboard, error)
	Delete(ctx context.Context, id string) error
}
