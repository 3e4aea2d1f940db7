package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"math"
	"sync"
	"testing"
)

type testRig struct {
	engine    *Engine
	field     *Field
	reference *StaticReference
	renderer  *fakeRenderer
	physics   *fakePhysics
	events    *eventLog
}

func newTestRig(t *testing.T, gen voxel.Generator, store Store, streamer Streamer) *testRig {
	t.Helper()
	rig := &testRig{
		field:     NewField(gen, store, 2),
		reference: &StaticReference{Position: mgl32.Vec3{8, 8, 8}, Valid: true},
		renderer:  newFakeRenderer(),
		physics:   newFakePhysics(),
		events:    &eventLog{},
	}
	engine, err := NewEngine(rig.field, rig.reference, rig.renderer, rig.physics, Options{Streamer: streamer})
	if err != nil {
		t.Fatal(err)
	}
	engine.SetListener(rig.events)
	rig.engine = engine
	t.Cleanup(rig.field.Close)
	return rig
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	if _, err := NewEngine(nil, nil, nil, nil, Options{}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestStreamingConverges(t *testing.T) {
	for _, perTick := range []int{1, 2, 5} {
		rig := newTestRig(t, emptyGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: perTick})
		want := 27
		ticks := (want + perTick - 1) / perTick
		for i := 0; i < ticks; i++ {
			stats := rig.engine.Tick()
			if i == 0 && stats.Stream.Spawned[0] != (voxel.Int3{}) {
				t.Fatalf("throttle %d: nearest chunk must spawn first, got %v", perTick, stats.Stream.Spawned[0])
			}
			if len(stats.Stream.Spawned) > perTick {
				t.Fatalf("throttle %d: spawned %d in one tick", perTick, len(stats.Stream.Spawned))
			}
		}
		if rig.field.Len() != want {
			t.Fatalf("throttle %d: %d chunks after %d ticks", perTick, rig.field.Len(), ticks)
		}
		stats := rig.engine.Tick()
		if len(stats.Stream.Spawned) != 0 || stats.Stream.Missing != 0 {
			t.Fatalf("throttle %d: streaming did not settle: %+v", perTick, stats.Stream)
		}
	}
}

func TestStreamingSpawnsNearestFirst(t *testing.T) {
	rig := newTestRig(t, emptyGenerator, nil, Streamer{RenderDistance: 1, SpawnPerTick: 7})
	stats := rig.engine.Tick()
	for _, pos := range stats.Stream.Spawned {
		if pos.LengthSquared() > 1 {
			t.Fatalf("spawned %v before closer chunks", pos)
		}
	}
	if len(stats.Stream.Spawned) != 7 || stats.Stream.Missing != 125-7 {
		t.Fatalf("stream result %+v", stats.Stream)
	}
}

func TestMovingAwayDestroysChunks(t *testing.T) {
	rig := newTestRig(t, floorGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 27})
	rig.engine.Tick()
	if rig.field.Len() != 27 || len(rig.renderer.meshes) != 9 {
		t.Fatalf("%d chunks, %d meshes", rig.field.Len(), len(rig.renderer.meshes))
	}

	rig.reference.Position = mgl32.Vec3{8 + 16*10, 8, 8}
	stats := rig.engine.Tick()
	if len(stats.Stream.Marked) != 27 || stats.Destroyed != 27 {
		t.Fatalf("marked %d, destroyed %d", len(stats.Stream.Marked), stats.Destroyed)
	}
	if rig.field.Len() != 27 {
		t.Fatalf("expected the new neighborhood only, got %d chunks", rig.field.Len())
	}
	for _, pos := range rig.field.Coords() {
		if pos.X < 9 {
			t.Fatalf("old chunk %v survived", pos)
		}
	}
	if rig.renderer.removedUnknown != 0 {
		t.Fatal("renderer got unknown handles")
	}
	if got := rig.events.count(EventDestroyed); got != 27 {
		t.Fatalf("%d destroyed events", got)
	}
}

func TestNoReferenceSkipsStreamingAndDropsEdits(t *testing.T) {
	rig := newTestRig(t, emptyGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 1})
	rig.reference.Valid = false
	rig.engine.Submit(Carve(mgl32.Vec3{}, mgl32.Vec3{0, -1, 0}, DefaultEditRadius))

	stats := rig.engine.Tick()
	if stats.Streamed || rig.field.Len() != 0 {
		t.Fatal("streaming ran without a reference")
	}
	if stats.EditsDropped != 1 || rig.physics.casts != 0 {
		t.Fatalf("dropped %d, casts %d", stats.EditsDropped, rig.physics.casts)
	}
	rig.reference.Valid = true
	stats = rig.engine.Tick()
	if stats.EditsDropped != 0 || stats.EditsApplied != 0 {
		t.Fatal("dropped edit came back")
	}
}

func TestEditRebuildsHitChunk(t *testing.T) {
	rig := newTestRig(t, floorGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 27})
	rig.reference.Collider, rig.reference.HasCollider = 999, true
	rig.engine.Tick()

	before := *rig.field.Chunk(voxel.Int3{}).Published()
	hit := voxel.Int3{}
	rig.physics.hitChunk = &hit
	rig.physics.hitDistance = 5.5
	rig.engine.Submit(Carve(mgl32.Vec3{8, 10, 8}, mgl32.Vec3{0, -2, 0}, DefaultEditRadius))

	stats := rig.engine.Tick()
	if stats.EditsApplied != 1 || len(stats.Edited) != 1 || stats.Edited[0] != hit {
		t.Fatalf("stats %+v", stats)
	}
	if rig.physics.lastExclude == nil || *rig.physics.lastExclude != 999 {
		t.Fatal("reference collider was not excluded")
	}
	if rig.physics.lastMaxDist != DefaultMaxEditDistance {
		t.Fatalf("max distance %f", rig.physics.lastMaxDist)
	}
	chunk := rig.field.Chunk(hit)
	if v := chunk.Grid().At(8, 4, 8).Value; v != 0 {
		t.Fatalf("carved cell still %f", v)
	}
	if stats.Rebuilt != 1 || stats.Unpublished != 1 || stats.Published != 1 {
		t.Fatalf("publish pass %+v", stats)
	}
	after := chunk.Published()
	if after.Mesh == before.Mesh || after.Collider == before.Collider {
		t.Fatal("rebuilt chunk kept its old handles")
	}
	if _, ok := rig.renderer.meshes[before.Mesh]; ok {
		t.Fatal("old mesh still registered")
	}
	if _, ok := rig.engine.ColliderOwner(before.Collider); ok {
		t.Fatal("old collider still mapped")
	}
	if owner, ok := rig.engine.ColliderOwner(after.Collider); !ok || owner != hit {
		t.Fatal("new collider not mapped to its chunk")
	}
}

func TestEditMissIsDropped(t *testing.T) {
	rig := newTestRig(t, floorGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 27})
	rig.engine.Tick()
	rig.engine.Submit(Fill(mgl32.Vec3{8, 10, 8}, mgl32.Vec3{0, 1, 0}, DefaultEditRadius))
	rig.engine.Submit(EditRequest{Origin: mgl32.Vec3{}, Shape: voxel.Sphere{Radius: 1}})
	stats := rig.engine.Tick()
	if stats.EditsDropped != 2 || stats.Rebuilt != 0 {
		t.Fatalf("stats %+v", stats)
	}
	if rig.physics.casts != 1 {
		t.Fatalf("zero direction must not be cast, got %d casts", rig.physics.casts)
	}
}

func TestColliderFailureIsNotFatal(t *testing.T) {
	rig := newTestRig(t, floorGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 27})
	rig.physics.failing[voxel.Int3{}] = true
	stats := rig.engine.Tick()
	if stats.ColliderErrors != 1 || stats.Published != 9 {
		t.Fatalf("stats %+v", stats)
	}
	published := rig.field.Chunk(voxel.Int3{}).Published()
	if published == nil || published.HasCollider {
		t.Fatalf("chunk should be visible without collider: %+v", published)
	}
	if rig.events.count(EventColliderFailed) != 1 {
		t.Fatal("collider failure was not reported")
	}
	for _, e := range rig.events.events {
		if e.Kind == EventColliderFailed && (e.Chunk != voxel.Int3{} || e.Error == "") {
			t.Fatalf("bad failure event %+v", e)
		}
	}
}

func TestEditedChunkSurvivesStreamingOut(t *testing.T) {
	store := newMemoryStore()
	rig := newTestRig(t, floorGenerator, store, Streamer{RenderDistance: 0, SpawnPerTick: 27})
	rig.engine.Tick()
	hit := voxel.Int3{}
	rig.physics.hitChunk = &hit
	rig.physics.hitDistance = 5.5
	rig.engine.Submit(Carve(mgl32.Vec3{8, 10, 8}, mgl32.Vec3{0, -1, 0}, DefaultEditRadius))
	rig.engine.Tick()

	rig.reference.Position = mgl32.Vec3{8 + 16*10, 8, 8}
	rig.engine.Tick()
	if _, ok := store.grids[hit]; !ok {
		t.Fatal("edited chunk was not saved")
	}
	rig.reference.Position = mgl32.Vec3{8, 8, 8}
	rig.engine.Tick()
	if v := rig.field.Chunk(hit).Grid().At(8, 4, 8).Value; v != 0 {
		t.Fatalf("edit lost after streaming back in: %f", v)
	}
}

func TestTickRecordsPhaseTimings(t *testing.T) {
	rig := newTestRig(t, emptyGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 1})
	rig.engine.Tick()
	stats := rig.engine.Tick()
	names := []string{"stream", "edits", "publish"}
	if len(stats.Timings) != len(names) {
		t.Fatalf("timings %v", stats.Timings)
	}
	for i, name := range names {
		state := rig.engine.Timer().GetState(name)
		if state == nil || state.Count() != 2 {
			t.Fatalf("phase %s not timed", name)
		}
		phase := stats.Timings[i]
		if phase.Name != name || phase.Last != state.Last() || phase.Average != state.Average() {
			t.Fatalf("phase %d = %v, timer has %v", i, phase, state)
		}
	}
}

func TestEditWithNonFiniteOriginIsDropped(t *testing.T) {
	rig := newTestRig(t, floorGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 27})
	rig.engine.Tick()
	hit := voxel.Int3{}
	rig.physics.hitChunk = &hit
	rig.physics.hitDistance = 5.5
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	rig.engine.Submit(Carve(mgl32.Vec3{nan, 10, 8}, mgl32.Vec3{0, -1, 0}, DefaultEditRadius))
	rig.engine.Submit(Carve(mgl32.Vec3{8, inf, 8}, mgl32.Vec3{0, -1, 0}, DefaultEditRadius))

	stats := rig.engine.Tick()
	if stats.EditsDropped != 2 || stats.EditsApplied != 0 || stats.Rebuilt != 0 {
		t.Fatalf("stats %+v", stats)
	}
	if rig.physics.casts != 0 {
		t.Fatalf("non-finite origin was cast %d times", rig.physics.casts)
	}
}

func TestEditRemovingSurfaceUnpublishes(t *testing.T) {
	rig := newTestRig(t, floorGenerator, nil, Streamer{RenderDistance: 0, SpawnPerTick: 27})
	rig.engine.Tick()
	pos := voxel.Int3{}
	chunk := rig.field.Chunk(pos)
	if chunk.Published() == nil {
		t.Fatal("floor chunk was not published")
	}
	before := *chunk.Published()

	rig.physics.hitChunk = &pos
	rig.physics.hitDistance = 5.5
	// the box reaches past every face of the chunk, so no sample stays solid
	rig.engine.Submit(EditRequest{
		Origin:    mgl32.Vec3{8, 10, 8},
		Direction: mgl32.Vec3{0, -1, 0},
		Shape:     voxel.Box{HalfExtents: mgl32.Vec3{9, 9, 9}},
		Value:     0,
	})
	stats := rig.engine.Tick()
	if stats.EditsApplied != 1 {
		t.Fatalf("stats %+v", stats)
	}
	size := int(voxel.GRID_SIZE)
	for i := 0; i < size*size*size; i++ {
		if v := chunk.Grid().AtIndex(i).Value; v >= voxel.ISO_LEVEL {
			t.Fatalf("cell %d still solid: %f", i, v)
		}
	}

	if rig.field.Chunk(pos) != chunk {
		t.Fatal("chunk without surface must stay in the field")
	}
	if chunk.Published() != nil || chunk.Mesh() != nil || chunk.IsDirty() {
		t.Fatalf("published %+v, mesh %v, dirty %v", chunk.Published(), chunk.Mesh(), chunk.IsDirty())
	}
	if _, ok := rig.renderer.meshes[before.Mesh]; ok {
		t.Fatal("old mesh still registered")
	}
	if _, ok := rig.renderer.materials[before.Material]; ok {
		t.Fatal("old material still registered")
	}
	if _, ok := rig.physics.colliders[before.Collider]; ok {
		t.Fatal("old collider still registered")
	}
	if _, ok := rig.engine.ColliderOwner(before.Collider); ok {
		t.Fatal("old collider still mapped")
	}
	unpublished := false
	for _, e := range rig.events.events {
		if e.Tick == stats.Tick && e.Chunk == pos {
			if e.Kind == EventPublished {
				t.Fatal("empty chunk was published")
			}
			unpublished = unpublished || e.Kind == EventUnpublished
		}
	}
	if !unpublished {
		t.Fatal("no unpublished event for the emptied chunk")
	}
}

func TestEditQueueFIFOAndConcurrentSubmit(t *testing.T) {
	queue := &EditQueue{}
	for i := 0; i < 3; i++ {
		queue.Submit(EditRequest{Value: float32(i)})
	}
	drained := queue.Drain()
	for i, r := range drained {
		if r.Value != float32(i) {
			t.Fatalf("request %d has value %f", i, r.Value)
		}
	}
	if queue.Len() != 0 {
		t.Fatal("drain left requests behind")
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				queue.Submit(EditRequest{})
			}
		}()
	}
	wg.Wait()
	if got := len(queue.Drain()); got != 800 {
		t.Fatalf("drained %d requests", got)
	}
}
