package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/memmaker/marchingterrain/engine/terrain"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
)

const defaultClientBuffer = 256

type observerClient struct {
	id     uuid.UUID
	out    chan []byte
	closed bool
}

// Observer streams terrain events to read-only websocket clients. It is a
// terrain.Listener and keeps a snapshot of the published chunks so late
// joiners start from the current state.
type Observer struct {
	mu        sync.Mutex
	clients   map[uuid.UUID]*observerClient
	published map[voxel.Int3]int
	tick      uint64
	buffer    int

	upgrader websocket.Upgrader
}

func NewObserver() *Observer {
	return &Observer{
		clients:   make(map[uuid.UUID]*observerClient),
		published: make(map[voxel.Int3]int),
		buffer:    defaultClientBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (o *Observer) ClientCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.clients)
}

func (o *Observer) OnTerrainEvent(event terrain.Event) {
	msg, err := json.Marshal(NewEventMsg(event))
	if err != nil {
		util.LogNetworkError(fmt.Sprintf("[Observer] encoding %s: %s", event, err.Error()))
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tick = event.Tick
	switch event.Kind {
	case terrain.EventPublished:
		o.published[event.Chunk] = event.Triangles
	case terrain.EventUnpublished, terrain.EventDestroyed:
		delete(o.published, event.Chunk)
	}
	for _, client := range o.clients {
		select {
		case client.out <- msg:
		default:
			util.LogNetworkWarning(fmt.Sprintf("[Observer] Client(%s) is too slow, disconnecting", client.id))
			o.dropLocked(client)
		}
	}
}

func (o *Observer) welcomeLocked(id uuid.UUID) WelcomeMsg {
	coords := make([]voxel.Int3, 0, len(o.published))
	for pos := range o.published {
		coords = append(coords, pos)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	chunks := make([]ChunkState, len(coords))
	for i, pos := range coords {
		chunks[i] = ChunkState{Chunk: chunkArray(pos), Triangles: o.published[pos]}
	}
	return WelcomeMsg{
		Type:            TypeWelcome,
		ProtocolVersion: ProtocolVersion,
		SessionID:       id.String(),
		Tick:            o.tick,
		ChunkSize:       int(voxel.CHUNK_SIZE),
		Chunks:          chunks,
	}
}

// register queues the welcome message before any event can reach the
// client.
func (o *Observer) register() (*observerClient, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	client := &observerClient{id: uuid.New(), out: make(chan []byte, o.buffer)}
	welcome, err := json.Marshal(o.welcomeLocked(client.id))
	if err != nil {
		return nil, errors.Wrap(err, "encoding welcome")
	}
	client.out <- welcome
	o.clients[client.id] = client
	return client, nil
}

func (o *Observer) dropLocked(client *observerClient) {
	if client.closed {
		return
	}
	client.closed = true
	close(client.out)
	delete(o.clients, client.id)
}

func (o *Observer) unregister(client *observerClient) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropLocked(client)
}

// Close disconnects every client.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, client := range o.clients {
		o.dropLocked(client)
	}
}

func (o *Observer) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := o.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client, err := o.register()
		if err != nil {
			util.LogNetworkError(err.Error())
			return
		}
		util.LogNetworkInfo(fmt.Sprintf("[Observer] Client(%s) connected from %s", client.id, r.RemoteAddr))
		defer util.LogNetworkInfo(fmt.Sprintf("[Observer] Client(%s) disconnected", client.id))

		go func() {
			for msg := range client.out {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					util.LogNetworkDebug(fmt.Sprintf("[Observer] Client(%s) write: %s", client.id, err.Error()))
					_ = conn.Close()
					return
				}
			}
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
			_ = conn.Close()
		}()

		// Clients never send anything meaningful; reading only detects the
		// close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		o.unregister(client)
	}
}

// ListenAndServe serves the websocket endpoint on /observe until ctx is
// done.
func (o *Observer) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/observe", o.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		util.LogNetworkInfo(fmt.Sprintf("[Observer] listening on %s", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return errors.Wrapf(err, "observer on %s", addr)
	case <-ctx.Done():
	}
	o.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "observer shutdown")
	}
	return nil
}
