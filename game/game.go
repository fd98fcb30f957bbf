// Package game wires the station simulation together: world setup,
// the fixed-step simulation loop, player input and rendering.
package game

import (
	"log/slog"
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/camera"
	"github.com/pthm-cable/mothership/components"
	"github.com/pthm-cable/mothership/config"
	"github.com/pthm-cable/mothership/systems"
	"github.com/pthm-cable/mothership/telemetry"
	"github.com/pthm-cable/mothership/ui"
)

// BuildMode selects what a click places on the map.
type BuildMode uint8

const (
	BuildNone BuildMode = iota
	BuildWire
	BuildReactor
	BuildLifeSupport
)

func (m BuildMode) String() string {
	switch m {
	case BuildWire:
		return "wire"
	case BuildReactor:
		return "reactor"
	case BuildLifeSupport:
		return "life support"
	}
	return "off"
}

// Options configures a new game.
type Options struct {
	Cfg            *config.Config
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	cfg   *config.Config
	rng   *rand.Rand

	// Entity archetypes
	catMapper *ecs.Map7[
		components.Position,
		components.Speed,
		components.Health,
		components.Hunger,
		components.PathFollow,
		components.CatBrain,
		components.Breather,
	]
	humanMapper *ecs.Map7[
		components.Position,
		components.Speed,
		components.Health,
		components.PathFollow,
		components.HumanBrain,
		components.Captive,
		components.Breather,
	]
	alienMapper *ecs.Map7[
		components.Position,
		components.Speed,
		components.Health,
		components.PathFollow,
		components.PlayerControl,
		components.Carrier,
		components.Breather,
	]
	foodMapper *ecs.Map3[components.Position, components.Food, components.Tint]

	// Individual component mappers for lookups
	posMap    *ecs.Map1[components.Position]
	spdMap    *ecs.Map1[components.Speed]
	healthMap *ecs.Map1[components.Health]
	moraleMap *ecs.Map1[components.Morale]
	hungerMap *ecs.Map1[components.Hunger]
	pathMap   *ecs.Map1[components.PathFollow]
	captMap   *ecs.Map1[components.Captive]
	carrMap   *ecs.Map1[components.Carrier]
	playerMap *ecs.Map1[components.PlayerControl]
	tintMap   *ecs.Map1[components.Tint]
	catMap    *ecs.Map1[components.CatBrain]
	humanMap  *ecs.Map1[components.HumanBrain]

	// Queries
	catFilter   *ecs.Filter3[components.Position, components.Health, components.CatBrain]
	humanFilter *ecs.Filter3[components.Position, components.Health, components.HumanBrain]
	alienFilter *ecs.Filter2[components.Position, components.PlayerControl]
	moverFilter *ecs.Filter2[components.Position, components.PathFollow]
	foodFilter  *ecs.Filter2[components.Position, components.Food]

	// Station structures
	tilemap      *systems.Tilemap
	reservations *systems.ReservationTable
	occupancy    *systems.OccupancyIndex
	pathfinder   *systems.Pathfinder
	board        *systems.TaskBoard

	// Simulation passes, run in order each tick
	catAI    *systems.CatAISystem
	humanAI  *systems.HumanAISystem
	capture  *systems.CaptureSystem
	movement *systems.MovementSystem
	power    *systems.PowerSystem
	oxygen   *systems.OxygenSystem

	// Telemetry
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	// Presentation
	camera         *camera.Camera
	hud            *ui.HUD
	selectionPanel *ui.SelectionPanel
	overlays       *ui.OverlayRegistry
	controlsPanel  *ui.ControlsPanel
	screenWidth    float32
	screenHeight   float32

	// Player interaction
	alien        ecs.Entity
	buildMode    BuildMode
	wireStart    components.TilePos
	wireDragging bool

	// Loop state
	tick           int64
	dt             float64
	paused         bool
	stepsPerUpdate int
	headless       bool
	seed           int64
}

// NewGameWithOptions creates a game from the given options.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Cfg
	if cfg == nil {
		cfg = config.MustLoad("")
	}
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)+1)),
		dt:             1.0 / float64(cfg.Screen.TargetFPS),
		stepsPerUpdate: opts.StepsPerUpdate,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		seed:           opts.Seed,
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
	}
	g.world = ecs.NewWorld()
	w := g.world

	g.catMapper = ecs.NewMap7[
		components.Position,
		components.Speed,
		components.Health,
		components.Hunger,
		components.PathFollow,
		components.CatBrain,
		components.Breather,
	](w)
	g.humanMapper = ecs.NewMap7[
		components.Position,
		components.Speed,
		components.Health,
		components.PathFollow,
		components.HumanBrain,
		components.Captive,
		components.Breather,
	](w)
	g.alienMapper = ecs.NewMap7[
		components.Position,
		components.Speed,
		components.Health,
		components.PathFollow,
		components.PlayerControl,
		components.Carrier,
		components.Breather,
	](w)
	g.foodMapper = ecs.NewMap3[components.Position, components.Food, components.Tint](w)

	g.posMap = ecs.NewMap1[components.Position](w)
	g.spdMap = ecs.NewMap1[components.Speed](w)
	g.healthMap = ecs.NewMap1[components.Health](w)
	g.moraleMap = ecs.NewMap1[components.Morale](w)
	g.hungerMap = ecs.NewMap1[components.Hunger](w)
	g.pathMap = ecs.NewMap1[components.PathFollow](w)
	g.captMap = ecs.NewMap1[components.Captive](w)
	g.carrMap = ecs.NewMap1[components.Carrier](w)
	g.playerMap = ecs.NewMap1[components.PlayerControl](w)
	g.tintMap = ecs.NewMap1[components.Tint](w)
	g.catMap = ecs.NewMap1[components.CatBrain](w)
	g.humanMap = ecs.NewMap1[components.HumanBrain](w)

	g.catFilter = ecs.NewFilter3[components.Position, components.Health, components.CatBrain](w)
	g.humanFilter = ecs.NewFilter3[components.Position, components.Health, components.HumanBrain](w)
	g.alienFilter = ecs.NewFilter2[components.Position, components.PlayerControl](w)
	g.moverFilter = ecs.NewFilter2[components.Position, components.PathFollow](w)
	g.foodFilter = ecs.NewFilter2[components.Position, components.Food](w)

	// Station map and pathfinding infrastructure
	g.tilemap = systems.NewTilemap(cfg.World.Cols, cfg.World.Rows, float64(cfg.World.TileSize))
	systems.GenerateStation(g.tilemap, opts.Seed, systems.MapGenParams{
		NoiseScale:  cfg.World.NoiseScale,
		RockCutoff:  cfg.World.RockCutoff,
		GrassCutoff: cfg.World.GrassCutoff,
	})
	g.reservations = systems.NewReservationTable()
	g.occupancy = systems.NewOccupancyIndex()
	g.pathfinder = systems.NewPathfinder(
		g.tilemap, g.reservations, g.occupancy,
		cfg.Pathfinding.DiagonalCost, cfg.Pathfinding.MaxSearchRadius, cfg.Pathfinding.MaxIterations,
	)
	g.board = systems.NewTaskBoard()

	// Telemetry before the systems so they can record from tick one
	windowSec := opts.StatsWindowSec
	if windowSec <= 0 {
		windowSec = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(windowSec, g.dt)

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.Telemetry.OutputDir
	}
	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		slog.Error("telemetry output disabled", "error", err)
	} else {
		g.output = output
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Error("writing config snapshot", "error", err)
		}
	}

	g.catAI = systems.NewCatAISystem(w, g.tilemap, g.reservations, g.pathfinder, g.board, g.rng, systems.CatParams{
		CriticalHunger:    cfg.Cats.CriticalHunger,
		StarvationDamage:  cfg.Cats.StarvationDamage,
		EatRangePixels:    cfg.Derived.EatPixels,
		SprintHungerFrac:  cfg.Cats.SprintHunger,
		WanderMinSec:      cfg.Cats.WanderMinSec,
		WanderMaxSec:      cfg.Cats.WanderMaxSec,
		IdleMinSec:        cfg.Cats.IdleMinSec,
		IdleMaxSec:        cfg.Cats.IdleMaxSec,
		LowHealthDrain:    cfg.Cats.LowHealthDrain,
		InterruptPriority: cfg.Tasks.InterruptPriority,
		WorkRangeTiles:    cfg.Tasks.WorkRangeTiles,
	}, g.collector)
	g.humanAI = systems.NewHumanAISystem(w, g.tilemap, g.reservations, g.pathfinder, g.rng, systems.HumanParams{
		DetectionPixels: cfg.Derived.DetectionPixels,
		AttackPixels:    cfg.Derived.AttackPixels,
		AttackDamage:    cfg.Humans.AttackDamage,
		AttackCooldown:  cfg.Humans.AttackCooldown,
		RepathMinSec:    cfg.Humans.RepathMinSec,
		RepathMaxSec:    cfg.Humans.RepathMaxSec,
	}, g.collector)
	g.capture = systems.NewCaptureSystem(w, g.reservations, g.board, g.rng, systems.CaptureParams{
		RangePixels:     cfg.Derived.CapturePixels,
		StealthChance:   cfg.Capture.StealthChance,
		BaseChance:      cfg.Capture.BaseChance,
		UnconsciousSec:  cfg.Capture.UnconsciousSec,
		CarrySpeedScale: cfg.Capture.CarrySpeedScale,
	}, g.collector)
	g.movement = systems.NewMovementSystem(w, g.tilemap, g.reservations, cfg.Movement.ArrivalEpsilon, cfg.Cats.SprintFactor)
	g.power = systems.NewPowerSystem(g.tilemap, g.collector)

	field := systems.NewOxygenField(g.tilemap, systems.OxygenParams{
		DiffusionRate:    cfg.Oxygen.DiffusionRate,
		ConsumptionRate:  cfg.Oxygen.ConsumptionRate,
		GenerationRate:   cfg.Oxygen.GenerationRate,
		GenerationRadius: cfg.Oxygen.GenerationRadius,
		CriticalLevel:    cfg.Oxygen.CriticalLevel,
		DamageScale:      cfg.Oxygen.DamageScale,
	})
	g.oxygen = systems.NewOxygenSystem(w, field, g.tilemap, g.collector)

	if !g.headless {
		worldW := float32(cfg.World.Cols * cfg.World.TileSize)
		worldH := float32(cfg.World.Rows * cfg.World.TileSize)
		g.camera = camera.New(g.screenWidth, g.screenHeight, worldW, worldH,
			float32(cfg.Render.MinZoom), float32(cfg.Render.MaxZoom))
		g.hud = ui.NewHUD()
		g.selectionPanel = ui.NewSelectionPanel(int32(g.screenWidth)-270, 10, 260)
		g.overlays = ui.NewOverlayRegistry()
		g.controlsPanel = ui.NewControlsPanel(10, 110, 220)
	}

	g.populate()

	slog.Info("game created",
		"seed", opts.Seed,
		"cols", cfg.World.Cols,
		"rows", cfg.World.Rows,
		"cats", cfg.Cats.Count,
		"humans", cfg.Humans.Count,
	)
	return g
}

// Update runs one frame in graphical mode: input, then zero or more
// simulation steps depending on pause state and speed.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs simulation steps without any input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// Unload flushes telemetry and releases resources.
func (g *Game) Unload() {
	if g.output != nil {
		if events := g.collector.DrainEvents(); len(events) > 0 {
			if err := g.output.WriteEvents(events); err != nil {
				slog.Error("writing final events", "error", err)
			}
		}
		if err := g.output.Close(); err != nil {
			slog.Error("closing telemetry output", "error", err)
		}
	}
	slog.Info("game unloaded", "tick", g.tick)
}
