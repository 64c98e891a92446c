package ports

import (
	"context"
	"time"
)

// FileWatcher reports changes to module and metadata files under a
// content root. The channel is closed when ctx is done or Stop is called.
type FileWatcher interface {
	Watch(ctx context.Context, root string) (<-chan FileChangeEvent, error)
	Stop() error
}

// FileChangeEvent is one debounced change to a content file
type FileChangeEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType is the kind of a FileChangeEvent
type ChangeType int

const (
	Modified ChangeType = iota
	Created
	Deleted
	Renamed
)

func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}
