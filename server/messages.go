package server

import (
	"github.com/memmaker/marchingterrain/engine/terrain"
	"github.com/memmaker/marchingterrain/engine/voxel"
)

const ProtocolVersion = "1.0"

const (
	TypeWelcome = "WELCOME"
	TypeEvent   = "EVENT"
)

type ChunkState struct {
	Chunk     [3]int32 `json:"chunk"`
	Triangles int      `json:"triangles"`
}

// WelcomeMsg is the first message of every session. Chunks lists what is
// published at the time of joining, ordered by chunk coordinate.
type WelcomeMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	SessionID       string       `json:"session_id"`
	Tick            uint64       `json:"tick"`
	ChunkSize       int          `json:"chunk_size"`
	Chunks          []ChunkState `json:"chunks"`
}

type EventMsg struct {
	Type      string   `json:"type"`
	Kind      string   `json:"kind"`
	Tick      uint64   `json:"tick"`
	Chunk     [3]int32 `json:"chunk"`
	Triangles int      `json:"triangles,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func chunkArray(pos voxel.Int3) [3]int32 {
	return [3]int32{pos.X, pos.Y, pos.Z}
}

func NewEventMsg(event terrain.Event) EventMsg {
	return EventMsg{
		Type:      TypeEvent,
		Kind:      string(event.Kind),
		Tick:      event.Tick,
		Chunk:     chunkArray(event.Chunk),
		Triangles: event.Triangles,
		Error:     event.Error,
	}
}
