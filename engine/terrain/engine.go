package terrain

import (
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
)

const DefaultMaxEditDistance = 100

type Options struct {
	Streamer        Streamer
	MaxEditDistance float32
}

// Engine advances the terrain one tick at a time. All methods except
// Submit must be called from the same goroutine.
type Engine struct {
	field     *Field
	streamer  Streamer
	edits     *EditQueue
	reference ReferenceProvider
	renderer  Renderer
	physics   Physics
	listener  Listener

	// colliderOwners maps published colliders back to their chunk. Only
	// the publish pass writes it.
	colliderOwners map[voxel.ColliderHandle]voxel.Int3

	maxEditDistance float32
	timer           *util.Timer
	tick            uint64
}

type TickStats struct {
	Tick           uint64
	Streamed       bool
	Stream         StreamResult
	EditsApplied   int
	EditsDropped   int
	Edited         []voxel.Int3
	Rebuilt        int
	Published      int
	Unpublished    int
	Destroyed      int
	ColliderErrors int
	// Timings holds the stream, edits and publish phases of this tick.
	Timings []util.PhaseTiming
}

func (s TickStats) String() string {
	return fmt.Sprintf("tick %d: spawned %d, marked %d, missing %d, edits %d/%d, rebuilt %d, published %d, destroyed %d, collider errors %d, phases %v",
		s.Tick, len(s.Stream.Spawned), len(s.Stream.Marked), s.Stream.Missing, s.EditsApplied, s.EditsApplied+s.EditsDropped, s.Rebuilt, s.Published, s.Destroyed, s.ColliderErrors, s.Timings)
}

func NewEngine(field *Field, reference ReferenceProvider, renderer Renderer, physics Physics, options Options) (*Engine, error) {
	if field == nil || reference == nil || renderer == nil || physics == nil {
		return nil, errors.New("terrain engine needs a field, a reference provider, a renderer and a physics backend")
	}
	if options.MaxEditDistance <= 0 {
		options.MaxEditDistance = DefaultMaxEditDistance
	}
	return &Engine{
		field:           field,
		streamer:        options.Streamer,
		edits:           &EditQueue{},
		reference:       reference,
		renderer:        renderer,
		physics:         physics,
		colliderOwners:  make(map[voxel.ColliderHandle]voxel.Int3),
		maxEditDistance: options.MaxEditDistance,
		timer:           util.NewTimer(),
	}, nil
}

// SetListener replaces the event listener; nil disables events.
func (e *Engine) SetListener(listener Listener) {
	e.listener = listener
}

func (e *Engine) Field() *Field {
	return e.field
}

func (e *Engine) Timer() *util.Timer {
	return e.timer
}

func (e *Engine) CurrentTick() uint64 {
	return e.tick
}

// Submit queues an edit for the next tick. Safe from any goroutine.
func (e *Engine) Submit(request EditRequest) {
	e.edits.Submit(request)
}

// ColliderOwner returns the chunk a published collider belongs to.
func (e *Engine) ColliderOwner(handle voxel.ColliderHandle) (voxel.Int3, bool) {
	pos, ok := e.colliderOwners[handle]
	return pos, ok
}

func (e *Engine) emit(kind EventKind, pos voxel.Int3, triangles int, err error) {
	if e.listener == nil {
		return
	}
	event := Event{Kind: kind, Tick: e.tick, Chunk: pos, Triangles: triangles}
	if err != nil {
		event.Error = err.Error()
	}
	e.listener.OnTerrainEvent(event)
}

// Tick runs streaming, edit resolution and the publish pass, in that order.
func (e *Engine) Tick() TickStats {
	e.tick++
	stats := TickStats{Tick: e.tick}
	reference, hasReference := e.reference.ReferencePosition()

	stop := e.timer.Start("stream")
	if hasReference {
		stats.Streamed = true
		stats.Stream = e.streamer.Update(e.field, reference)
		for _, pos := range stats.Stream.Spawned {
			e.emit(EventSpawned, pos, 0, nil)
		}
	}
	stats.Timings = append(stats.Timings, stop())

	stop = e.timer.Start("edits")
	e.resolveEdits(hasReference, &stats)
	stats.Timings = append(stats.Timings, stop())

	stop = e.timer.Start("publish")
	e.publishPass(&stats)
	stats.Timings = append(stats.Timings, stop())

	return stats
}

func (e *Engine) resolveEdits(hasReference bool, stats *TickStats) {
	requests := e.edits.Drain()
	if len(requests) == 0 {
		return
	}
	if !hasReference {
		stats.EditsDropped += len(requests)
		util.LogEditDebug(fmt.Sprintf("[Engine] dropped %d edits without a reference position", len(requests)))
		for range requests {
			e.emit(EventEditDropped, voxel.Int3{}, 0, nil)
		}
		return
	}

	var exclude *voxel.ColliderHandle
	if collider, ok := e.reference.ReferenceCollider(); ok {
		exclude = &collider
	}
	for _, request := range requests {
		touched, err := e.resolveEdit(request, exclude)
		if err != nil {
			stats.EditsDropped++
			util.LogEditDebug(fmt.Sprintf("[Engine] edit dropped: %v", err))
			e.emit(EventEditDropped, voxel.Int3{}, 0, err)
			continue
		}
		stats.EditsApplied++
		stats.Edited = append(stats.Edited, touched...)
		for _, pos := range touched {
			e.emit(EventEdited, pos, 0, nil)
		}
	}
}

var (
	errBadOrigin   = errors.New("edit ray origin is not finite")
	errNoDirection = errors.New("edit ray has no direction")
	errNoShape     = errors.New("edit has no shape")
	errNoHit       = errors.New("edit ray hit nothing")
)

func (e *Engine) resolveEdit(request EditRequest, exclude *voxel.ColliderHandle) ([]voxel.Int3, error) {
	if request.Shape == nil {
		return nil, errNoShape
	}
	if !util.IsFiniteVec3(request.Origin) {
		return nil, errBadOrigin
	}
	if request.Direction.Len() == 0 || !util.IsFiniteVec3(request.Direction) {
		return nil, errNoDirection
	}
	direction := request.Direction.Normalize()
	hit, ok := e.physics.CastRay(request.Origin, direction, e.maxEditDistance, exclude)
	if !ok {
		return nil, errNoHit
	}
	owner, ok := e.colliderOwners[hit.Collider]
	if !ok {
		return nil, errors.Errorf("collider %d belongs to no chunk", hit.Collider)
	}
	end := request.Origin.Add(direction.Mul(hit.Distance))
	touched := e.field.ApplyEdit(owner, end, request.Edit())
	util.LogEditInfo(fmt.Sprintf("[Engine] edit at %v (chunk %s) touched %d chunks", formatVec(end), owner, len(touched)))
	return touched, nil
}

func (e *Engine) publishPass(stats *TickStats) {
	for _, pos := range e.field.Coords() {
		chunk := e.field.Chunk(pos)
		if chunk.ShouldDestroy() {
			if e.teardown(chunk) {
				stats.Unpublished++
			}
			if err := e.field.Remove(pos); err != nil {
				util.LogIOError(fmt.Sprintf("[Engine] removing chunk %s: %v", pos, err))
			}
			stats.Destroyed++
			e.emit(EventDestroyed, pos, 0, nil)
			continue
		}
		if !chunk.IsDirty() {
			continue
		}
		mesh := chunk.Polygonize()
		stats.Rebuilt++
		if e.teardown(chunk) {
			stats.Unpublished++
		}
		if mesh == nil {
			continue
		}
		if err := e.publish(chunk, mesh); err != nil {
			stats.ColliderErrors++
		}
		stats.Published++
	}
}

// teardown releases everything published for the chunk. It reports whether
// there was anything to release.
func (e *Engine) teardown(chunk *voxel.Chunk) bool {
	published := chunk.Published()
	if published == nil {
		return false
	}
	e.renderer.RemoveMesh(published.Mesh)
	e.renderer.RemoveMaterial(published.Material)
	if published.HasCollider {
		e.physics.RemoveCollider(published.Collider)
		delete(e.colliderOwners, published.Collider)
	}
	chunk.ClearPublished()
	e.emit(EventUnpublished, chunk.Position(), 0, nil)
	return true
}

// publish hands the mesh to the renderer and physics. A collider failure
// leaves the chunk visible but not editable.
func (e *Engine) publish(chunk *voxel.Chunk, mesh *voxel.Mesh) error {
	pos := chunk.Position()
	published := voxel.Published{
		Mesh:     e.renderer.AddMesh(pos, mesh),
		Material: e.renderer.AddMaterial(pos),
	}
	collider, err := e.physics.AddCollider(pos, mesh)
	if err != nil {
		util.LogPublishWarning(fmt.Sprintf("[Engine] no collider for chunk %s: %v", pos, err))
		e.emit(EventColliderFailed, pos, 0, err)
	} else {
		published.Collider = collider
		published.HasCollider = true
		e.colliderOwners[collider] = pos
	}
	chunk.SetPublished(published)
	util.LogPublishDebug(fmt.Sprintf("[Engine] published chunk %s with %d triangles", pos, mesh.TriangleCount()))
	e.emit(EventPublished, pos, mesh.TriangleCount(), nil)
	return err
}

// Close tears down and removes every chunk, which saves edited grids, and
// stops the field's workers.
func (e *Engine) Close() {
	for _, pos := range e.field.Coords() {
		e.teardown(e.field.Chunk(pos))
		if err := e.field.Remove(pos); err != nil {
			util.LogIOError(fmt.Sprintf("[Engine] removing chunk %s: %v", pos, err))
		}
	}
	e.field.Close()
}

func formatVec(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}
