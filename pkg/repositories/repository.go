package repositories

import "context"

// Repository stores opaque, compressed game-state blobs keyed by room
// and variant. It is a best-effort collaborator: the coordination core
// never depends on it.
type Repository interface {
	Close(ctx context.Context) error
	SaveSnapshot(ctx context.Context, roomID, variant string, blob []byte) error
	LoadSnapshot(ctx context.Context, roomID, variant string) ([]byte, error)
	ListRooms(ctx context.Context) ([]string, error)
}
