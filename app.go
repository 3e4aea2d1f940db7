package main

import (
	"context"
	"fmt"
	"time"

	"github.com/faiface/mainthread"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/marchingterrain/engine/config"
	"github.com/memmaker/marchingterrain/engine/export"
	"github.com/memmaker/marchingterrain/engine/journal"
	"github.com/memmaker/marchingterrain/engine/physics"
	"github.com/memmaker/marchingterrain/engine/store"
	"github.com/memmaker/marchingterrain/engine/terrain"
	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/memmaker/marchingterrain/server"
	"github.com/pkg/errors"
)

const (
	walkerHeight = 24
	walkerRadius = 24
	walkerStep   = 0.02
	// editEvery is the number of ticks between two demo edits.
	editEvery = 15
)

// App wires the terrain engine to its headless collaborators.
type App struct {
	cfg      config.Config
	engine   *terrain.Engine
	walker   *Walker
	world    *physics.World
	scene    *export.Scene
	store    *store.SQLiteStore
	journal  *journal.Writer
	observer *server.Observer

	material *voxel.Material
	edits    int
}

func NewApp(cfg config.Config) (*App, error) {
	if err := cfg.ApplyLogging(); err != nil {
		return nil, err
	}
	material, err := cfg.EditMaterial()
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:      cfg,
		world:    physics.NewWorld(),
		scene:    export.NewScene(),
		material: material,
	}

	var chunkStore terrain.Store
	if cfg.Storage.Path != "" {
		a.store, err = store.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		chunkStore = a.store
	}

	var listeners terrain.Listeners
	if cfg.Journal.Path != "" {
		a.journal, err = journal.Create(cfg.Journal.Path)
		if err != nil {
			a.closeStore()
			return nil, err
		}
		listeners = append(listeners, a.journal)
	}
	if cfg.Observer.Addr != "" {
		a.observer = server.NewObserver()
		listeners = append(listeners, a.observer)
	}

	a.walker = NewWalker(a.world, mgl32.Vec3{0, walkerHeight, 0}, walkerRadius, walkerStep)
	field := terrain.NewField(voxel.NewNoiseGenerator(cfg.NoiseSettings()), chunkStore, cfg.Streaming.Workers)
	a.engine, err = terrain.NewEngine(field, a.walker, a.scene, a.world, terrain.Options{
		Streamer: terrain.Streamer{
			RenderDistance: cfg.Streaming.RenderDistance,
			SpawnPerTick:   cfg.Streaming.SpawnPerTick,
		},
		MaxEditDistance: cfg.Edit.MaxDistance,
	})
	if err != nil {
		field.Close()
		return nil, err
	}
	if len(listeners) > 0 {
		a.engine.SetListener(listeners)
	}
	return a, nil
}

// Step advances the walker, queues the periodic demo edit and ticks the
// engine once.
func (a *App) Step() terrain.TickStats {
	a.walker.Advance()
	if a.engine.CurrentTick()%editEvery == editEvery-1 {
		origin, _ := a.walker.ReferencePosition()
		down := mgl32.Vec3{0, -1, 0}
		request := terrain.Carve(origin, down, a.cfg.Edit.Radius)
		if a.edits%2 == 1 {
			request = terrain.Fill(origin, down, a.cfg.Edit.Radius)
		}
		request.Material = a.material
		a.engine.Submit(request)
		a.edits++
	}
	return a.engine.Tick()
}

// Run ticks on the main thread at the configured rate until ctx is done or
// the configured tick count is reached.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	observerErr := make(chan error, 1)
	if a.observer != nil {
		go func() {
			observerErr <- a.observer.ListenAndServe(ctx, a.cfg.Observer.Addr)
		}()
	}

	ticker := time.NewTicker(a.cfg.TickInterval())
	defer ticker.Stop()
	for n := 0; a.cfg.Tick.Count == 0 || n < a.cfg.Tick.Count; n++ {
		select {
		case <-ctx.Done():
			return nil
		case err := <-observerErr:
			return err
		case <-ticker.C:
		}
		var stats terrain.TickStats
		mainthread.Call(func() {
			stats = a.Step()
		})
		if n%a.cfg.Tick.RateHz == 0 {
			util.LogSystemInfo(stats.String())
		}
	}
	util.LogSystemInfo(fmt.Sprintf("[App] finished %d ticks\n%s", a.engine.CurrentTick(), a.engine.Timer()))
	return nil
}

// Close exports the published meshes, then shuts down the engine, which
// saves every edited chunk, and the outputs.
func (a *App) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.cfg.Export.Path != "" {
		keep(a.scene.Save(a.cfg.Export.Path))
	}
	a.engine.Close()
	if a.observer != nil {
		a.observer.Close()
	}
	if a.journal != nil {
		keep(errors.Wrap(a.journal.Close(), "closing journal"))
	}
	keep(a.closeStore())
	return firstErr
}

func (a *App) closeStore() error {
	if a.store == nil {
		return nil
	}
	return errors.Wrap(a.store.Close(), "closing chunk store")
}
