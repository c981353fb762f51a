package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/observer"
	"github.com/pthm-cable/terrarium/persistence"
	"github.com/pthm-cable/terrarium/scenario"
	"github.com/pthm-cable/terrarium/sim"
	"github.com/pthm-cable/terrarium/telemetry"
)

// runHooks bridges session events to the optional observer server and
// signals run completion. All callbacks arrive on the tick goroutine.
type runHooks struct {
	srv  *observer.Server // nil when the observer is disabled
	sess *sim.Session
	tick int
	done chan struct{}
}

func (h *runHooks) OnTick(tick int) {
	h.tick = tick
}

func (h *runHooks) OnOrganismUpdate(orgs []telemetry.OrganismState) {
	if h.srv == nil {
		return
	}
	h.srv.Publish(observer.Frame{
		Type:      "tick",
		Tick:      h.tick,
		Mode:      h.sess.Mode().String(),
		Organisms: orgs,
		Particles: h.sess.ParticleCount(),
	})
}

func (h *runHooks) OnSimulationComplete() {
	if h.srv != nil {
		h.srv.Publish(observer.Frame{Type: "complete", Tick: h.tick, Mode: "finished-active"})
	}
	close(h.done)
}

func (h *runHooks) OnOrganismClick(o telemetry.OrganismState) {
	slog.Info("organism inspected",
		"id", o.ID,
		"species", o.Species,
		"type", o.Type,
		"energy", o.Energy,
		"age", o.Age,
		"generation", o.Generation,
	)
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Path to a scenario JSON file (empty = built-in demo population)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = scenario seed, then time-based)")
	tickLimit := flag.Int("tick-limit", 0, "Ticks until the run completes (0 = scenario value, then config)")
	outputDir := flag.String("output-dir", "", "Directory for CSV telemetry and the effective config")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for the final JSON snapshot")
	archiveDir := flag.String("archive-dir", "", "Directory for the compressed run archive")
	indexPath := flag.String("index", "", "Path to the SQLite run index (requires -archive-dir)")
	addr := flag.String("addr", "", "Observer listen address (empty = config value; config default disables)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	var (
		env     sim.World
		specs   []sim.SpawnSpec
		scSeed  int64
		scLimit int
	)
	if *scenarioPath != "" {
		sc, err := scenario.Load(*scenarioPath)
		if err != nil {
			slog.Error("failed to load scenario", "path", *scenarioPath, "error", err)
			os.Exit(1)
		}
		env = sc.World
		specs = sc.Organisms
		scSeed = sc.Seed
		scLimit = sc.TickLimit
	} else {
		specs = demoPopulation()
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = scSeed
	}
	limit := *tickLimit
	if limit == 0 {
		limit = scLimit
	}
	if limit == 0 {
		limit = cfg.Clock.TickLimit
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to open output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write effective config", "error", err)
	}

	startedAt := time.Now().UTC()
	runID := "run-" + startedAt.Format("20060102-150405")

	hooks := &runHooks{done: make(chan struct{})}
	session := sim.NewSession(sim.Options{
		World:     env,
		TickLimit: limit,
		Seed:      rngSeed,
		Hooks:     hooks,
		Output:    out,
	}, specs)
	hooks.sess = session
	runner := sim.NewRunner(session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observerAddr := *addr
	if observerAddr == "" {
		observerAddr = cfg.Observer.Addr
	}
	if observerAddr != "" {
		desc := session.WorldDescriptor()
		hooks.srv = observer.NewServer(observer.RunInfo{
			RunID:       runID,
			Seed:        session.Seed(),
			WorldWidth:  desc.Width,
			WorldHeight: desc.Height,
			Biome:       desc.Biome.String(),
			TickLimit:   limit,
		}, runner, logger)
		go func() {
			if err := hooks.srv.ListenAndServe(ctx, observerAddr); err != nil && err != context.Canceled {
				slog.Error("observer server failed", "error", err)
			}
		}()
	}

	slog.Info("starting run",
		"run_id", runID,
		"seed", session.Seed(),
		"organisms", len(specs),
		"tick_limit", limit,
		"observer", observerAddr,
	)

	go func() {
		if err := runner.Run(ctx); err != nil && err != context.Canceled {
			slog.Error("run loop failed", "error", err)
		}
	}()

	select {
	case <-hooks.done:
		slog.Info("run complete", "tick", session.Tick())
	case <-ctx.Done():
		slog.Info("interrupted", "tick", session.Tick())
	}

	finalize(session, runID, startedAt, limit, *snapshotDir, *archiveDir, *indexPath)

	// With an observer attached the process idles after completion so
	// clients can keep watching the ambient scene.
	if observerAddr != "" && ctx.Err() == nil {
		slog.Info("idling until interrupt")
		<-ctx.Done()
	}
}

// finalize writes the post-run artifacts requested on the command line.
func finalize(session *sim.Session, runID string, startedAt time.Time, limit int, snapshotDir, archiveDir, indexPath string) {
	if snapshotDir != "" {
		path, err := telemetry.SaveSnapshot(session.Snapshot(), snapshotDir)
		if err != nil {
			slog.Error("snapshot write failed", "error", err)
		} else {
			slog.Info("snapshot written", "path", path)
		}
	}

	if archiveDir == "" {
		return
	}

	windows := session.Windows()
	final := session.Organisms()
	desc := session.WorldDescriptor()
	archive := &persistence.Archive{
		Meta: persistence.RunMeta{
			Version:   persistence.ArchiveVersion,
			RunID:     runID,
			Seed:      session.Seed(),
			Biome:     desc.Biome.String(),
			TickLimit: limit,
			Ticks:     session.Tick(),
			StartedAt: startedAt,
		},
		Windows: windows,
		Final:   final,
	}
	archivePath := filepath.Join(archiveDir, runID+".zst")
	if err := persistence.WriteArchive(archivePath, archive); err != nil {
		slog.Error("archive write failed", "error", err)
		return
	}
	slog.Info("archive written", "path", archivePath)

	if indexPath == "" {
		return
	}
	idx, err := persistence.OpenRunIndex(indexPath)
	if err != nil {
		slog.Error("run index open failed", "error", err)
		return
	}
	defer idx.Close()

	var meanEnergy float64
	if len(windows) > 0 {
		meanEnergy = windows[len(windows)-1].EnergyMean
	}
	rec := persistence.RunRecord{
		RunID:       runID,
		StartedAt:   startedAt,
		Seed:        session.Seed(),
		Biome:       desc.Biome.String(),
		Ticks:       session.Tick(),
		Population:  len(final),
		MeanEnergy:  meanEnergy,
		ArchivePath: archivePath,
	}
	if err := idx.Insert(rec); err != nil {
		slog.Error("run index insert failed", "error", err)
		return
	}
	slog.Info("run indexed", "run_id", runID, "index", indexPath)
}

// demoPopulation is the built-in population used when no scenario file is
// given: enough trophic variety to exercise every interaction rule.
func demoPopulation() []sim.SpawnSpec {
	specs := []sim.SpawnSpec{
		{Species: "fern", Type: components.TypePlant, Behavior: components.BehaviorPassive,
			Size: 14, Energy: 90, Color: "#4caf50"},
		{Species: "fern", Type: components.TypePlant, Behavior: components.BehaviorPassive,
			Size: 14, Energy: 90, Color: "#4caf50"},
		{Species: "fern", Type: components.TypePlant, Behavior: components.BehaviorPassive,
			Size: 14, Energy: 90, Color: "#4caf50"},
		{Species: "moss", Type: components.TypePlant, Behavior: components.BehaviorPassive,
			Size: 8, Energy: 70, Color: "#8bc34a"},
		{Species: "moss", Type: components.TypePlant, Behavior: components.BehaviorPassive,
			Size: 8, Energy: 70, Color: "#8bc34a"},

		{Species: "vole", Type: components.TypeHerbivore, Behavior: components.BehaviorGrazing,
			Size: 9, Speed: 1.2, Energy: 65, Color: "#bcaaa4"},
		{Species: "vole", Type: components.TypeHerbivore, Behavior: components.BehaviorGrazing,
			Size: 9, Speed: 1.2, Energy: 65, Color: "#bcaaa4"},
		{Species: "finch", Type: components.TypeHerbivore, Behavior: components.BehaviorSchooling,
			Locomotion: components.LocomotionFlying, Size: 6, Speed: 2.2, Energy: 70, Color: "#ffca28"},
		{Species: "finch", Type: components.TypeHerbivore, Behavior: components.BehaviorSchooling,
			Locomotion: components.LocomotionFlying, Size: 6, Speed: 2.2, Energy: 70, Color: "#ffca28"},
		{Species: "finch", Type: components.TypeHerbivore, Behavior: components.BehaviorSchooling,
			Locomotion: components.LocomotionFlying, Size: 6, Speed: 2.2, Energy: 70, Color: "#ffca28"},

		{Species: "boar", Type: components.TypeOmnivore, Behavior: components.BehaviorTerritorial,
			Size: 16, Speed: 1.1, Energy: 75, Color: "#795548"},
		{Species: "lynx", Type: components.TypeCarnivore, Behavior: components.BehaviorAmbush,
			Size: 14, Speed: 1.8, Energy: 85, Color: "#ef6c00"},
		{Species: "wolf", Type: components.TypeCarnivore, Behavior: components.BehaviorAggressive,
			Size: 15, Speed: 1.6, Energy: 80, Color: "#90a4ae"},

		{Species: "beetle", Type: components.TypeDecomposer, Behavior: components.BehaviorSolitary,
			Size: 5, Speed: 0.8, Energy: 60, Color: "#5d4037"},
		{Species: "bloom", Type: components.TypeMicrobe, Behavior: components.BehaviorPassive,
			Size: 4, Energy: 55, Color: "#80deea"},
	}
	for i := range specs {
		specs[i].Name = fmt.Sprintf("%s-%d", specs[i].Species, i+1)
	}
	return specs
}
