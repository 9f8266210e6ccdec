package market

import "context"

// Persistence hooks let the pipeline mirror finished snapshots to external stores.
type Persistence interface {
	// RecordSnapshot persists the latest snapshot, replacing the previous one.
	RecordSnapshot(ctx context.Context, snapshot *Snapshot) error
}
