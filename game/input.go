package game

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
	"github.com/pthm-cable/mothership/systems"
)

// handleInput processes one frame of keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.controlsPanel.Toggle()
	}
	g.overlays.HandleKeys()

	// Build mode selection
	if rl.IsKeyPressed(rl.KeyOne) {
		g.toggleBuildMode(BuildWire)
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.toggleBuildMode(BuildReactor)
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		g.toggleBuildMode(BuildLifeSupport)
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		g.buildMode = BuildNone
		g.wireDragging = false
	}

	// Alien actions
	if !g.alien.IsZero() {
		if rl.IsKeyPressed(rl.KeyS) {
			pc := g.playerMap.Get(g.alien)
			pc.Stealth = !pc.Stealth
		}
		if rl.IsKeyPressed(rl.KeyC) {
			g.attemptCapture()
		}
		if rl.IsKeyPressed(rl.KeyX) {
			g.capture.Release(g.alien)
		}
	}

	// Snapshot save/load
	if rl.IsKeyPressed(rl.KeyF6) {
		if err := g.SaveSnapshot("save.yaml"); err != nil {
			slog.Error("saving snapshot", "error", err)
		} else {
			slog.Info("snapshot saved", "path", "save.yaml", "tick", g.tick)
		}
	}

	g.handleMouse()
	g.handleCameraInput()
}

// toggleBuildMode switches a build mode on, or off when already active.
func (g *Game) toggleBuildMode(mode BuildMode) {
	if g.buildMode == mode {
		g.buildMode = BuildNone
	} else {
		g.buildMode = mode
	}
	g.wireDragging = false
}

// handleMouse routes clicks: building in build mode, move orders
// otherwise.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	tile := g.tilemap.WorldToTile(float64(wx), float64(wy))

	switch g.buildMode {
	case BuildWire:
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			g.wireStart = tile
			g.wireDragging = true
		}
		if rl.IsMouseButtonReleased(rl.MouseLeftButton) && g.wireDragging {
			g.wireDragging = false
			placed := systems.PlaceWireRun(g.tilemap, g.board, g.wireStart, tile, g.cfg.Power.WireBuildTime)
			if placed > 0 {
				slog.Info("wire run placed", "from", g.wireStart, "to", tile, "wires", placed)
			}
		}
	case BuildReactor:
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			g.placeStructure(systems.ElecReactor, tile)
		}
	case BuildLifeSupport:
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			g.placeStructure(systems.ElecLifeSupport, tile)
		}
	case BuildNone:
		if rl.IsMouseButtonPressed(rl.MouseRightButton) && !g.alien.IsZero() {
			g.orderAlienMove(tile)
		}
	}
}

// placeStructure puts a 2x2 structure under construction and posts a
// high-priority task at its origin so the crew builds it out.
func (g *Game) placeStructure(kind systems.ElectricalKind, origin components.TilePos) {
	pw := g.cfg.Power
	var e *systems.Electrical
	switch kind {
	case systems.ElecReactor:
		e = g.tilemap.PlaceStructure(kind, origin, pw.ReactorBuildTime, pw.ReactorCapacity, 0)
	case systems.ElecLifeSupport:
		e = g.tilemap.PlaceStructure(kind, origin, pw.LifeSupportBuildTime, 0, pw.LifeSupportDemand)
	}
	if e == nil {
		slog.Warn("structure placement blocked", "kind", kind.String(), "origin", origin)
		return
	}
	g.board.Add(systems.TaskStructureConstruction, origin, 2, e.BuildTime)
	slog.Info("structure placed", "kind", kind.String(), "origin", origin)
}

// orderAlienMove paths the player alien to the clicked tile.
func (g *Game) orderAlienMove(goal components.TilePos) {
	path := g.pathMap.Get(g.alien)
	systems.AbandonPath(g.reservations, g.alien, path)

	pos := g.posMap.Get(g.alien)
	start := g.tilemap.WorldToTile(pos.X, pos.Y)
	if tiles := g.pathfinder.FindPath(g.alien, start, goal); tiles != nil {
		path.Tiles = tiles
		path.Index = 0
	}
}

// attemptCapture targets the nearest human within capture range:
// knockout if conscious, pick up if unconscious.
func (g *Game) attemptCapture() {
	apos := g.posMap.Get(g.alien)

	var best ecs.Entity
	bestDist := math.MaxFloat64
	query := g.humanFilter.Query()
	for query.Next() {
		pos, health, _ := query.Get()
		if health.Current <= 0 {
			continue
		}
		d := math.Hypot(pos.X-apos.X, pos.Y-apos.Y)
		if d < bestDist {
			bestDist = d
			best = query.Entity()
		}
	}
	if best.IsZero() {
		return
	}
	if g.capture.Attempt(g.alien, best) {
		slog.Info("capture action succeeded", "target", best.ID(), "tick", g.tick)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(w, h)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1.0 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
