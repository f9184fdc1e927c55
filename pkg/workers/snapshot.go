package workers

import (
	"context"
	"time"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/hub"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/log"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/queue"
	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/repositories"
)

// SnapshotWorker drains the dirty-room queue on an interval and
// persists serialized game-state blobs through the repository. Saves
// are best-effort; failures are logged and dropped.
type SnapshotWorker struct {
	repository    repositories.Repository
	snapshotQueue queue.Queue
	interval      time.Duration
}

// NewSnapshotWorkerOptions contains options for creating a new SnapshotWorker.
type NewSnapshotWorkerOptions struct {
	Repository    repositories.Repository
	SnapshotQueue queue.Queue
	Interval      time.Duration
}

// NewSnapshotWorker creates a new SnapshotWorker.
func NewSnapshotWorker(opts NewSnapshotWorkerOptions) *SnapshotWorker {
	return &SnapshotWorker{
		repository:    opts.Repository,
		snapshotQueue: opts.SnapshotQueue,
		interval:      opts.Interval,
	}
}

func (w *SnapshotWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *SnapshotWorker) drain(ctx context.Context) {
	pending := w.snapshotQueue.ReadAllMessages()
	if len(pending) == 0 {
		return
	}

	// A busy room enqueues one request per action; only the latest
	// matters since the request carries the live instance.
	type key struct {
		room    string
		variant string
	}
	latest := make(map[key]*hub.SnapshotRequest)
	for _, item := range pending {
		req, ok := item.(*hub.SnapshotRequest)
		if !ok {
			log.Error("Unexpected snapshot queue item type %T", item)
			continue
		}
		latest[key{room: req.RoomID, variant: string(req.Variant)}] = req
	}

	for _, req := range latest {
		blob, err := req.Game.Snapshot()
		if err != nil {
			log.Error("Failed to serialize snapshot for room %s: %v", req.RoomID, err)
			continue
		}
		if err := w.repository.SaveSnapshot(ctx, req.RoomID, string(req.Variant), blob); err != nil {
			log.Error("Failed to save snapshot for room %s: %v", req.RoomID, err)
		}
	}
}
