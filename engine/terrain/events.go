package terrain

import (
	"fmt"
	"github.com/memmaker/marchingterrain/engine/voxel"
)

type EventKind string

const (
	EventSpawned        EventKind = "spawned"
	EventDestroyed      EventKind = "destroyed"
	EventEdited         EventKind = "edited"
	EventPublished      EventKind = "published"
	EventUnpublished    EventKind = "unpublished"
	EventColliderFailed EventKind = "collider_failed"
	EventEditDropped    EventKind = "edit_dropped"
)

// Event is a single observable change of the terrain. Triangles is set for
// published events, Error for collider failures.
type Event struct {
	Kind      EventKind  `json:"kind"`
	Tick      uint64     `json:"tick"`
	Chunk     voxel.Int3 `json:"chunk"`
	Triangles int        `json:"triangles,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (e Event) String() string {
	if e.Error != "" {
		return fmt.Sprintf("[%d] %s %s: %s", e.Tick, e.Kind, e.Chunk, e.Error)
	}
	return fmt.Sprintf("[%d] %s %s", e.Tick, e.Kind, e.Chunk)
}

type Listener interface {
	OnTerrainEvent(event Event)
}

type ListenerFunc func(event Event)

func (f ListenerFunc) OnTerrainEvent(event Event) {
	f(event)
}

// Listeners fans one event out to several listeners in order.
type Listeners []Listener

func (l Listeners) OnTerrainEvent(event Event) {
	for _, listener := range l {
		listener.OnTerrainEvent(event)
	}
}
