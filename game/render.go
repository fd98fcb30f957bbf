package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
	"github.com/pthm-cable/mothership/systems"
	"github.com/pthm-cable/mothership/ui"
)

// Draw renders one frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 12, B: 16, A: 255})

	g.drawTiles()
	g.drawElectrical()
	if g.overlays.IsEnabled(ui.OverlayTasks) {
		g.drawTaskMarkers()
	}
	if g.overlays.IsEnabled(ui.OverlayReservations) {
		g.drawReservations()
	}
	g.drawFood()
	g.drawEntities()
	g.drawWirePreview()

	g.drawHUD()
	g.controlsPanel.Draw(g.overlays)
	g.drawSelectionPanel()

	rl.EndDrawing()
}

// visibleTileBounds clips the camera view to the tile grid.
func (g *Game) visibleTileBounds() (x0, y0, x1, y1 int) {
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()
	ts := g.tilemap.TileSize

	x0 = int(float64(minX) / ts)
	y0 = int(float64(minY) / ts)
	x1 = int(float64(maxX)/ts) + 1
	y1 = int(float64(maxY)/ts) + 1

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > g.tilemap.Cols {
		x1 = g.tilemap.Cols
	}
	if y1 > g.tilemap.Rows {
		y1 = g.tilemap.Rows
	}
	return x0, y0, x1, y1
}

// tileScreenRect returns a tile's screen position and edge length.
func (g *Game) tileScreenRect(tx, ty int) (int32, int32, int32) {
	ts := float32(g.tilemap.TileSize)
	sx, sy := g.camera.WorldToScreen(float32(tx)*ts, float32(ty)*ts)
	size := int32(ts*g.camera.Zoom) + 1
	return int32(sx), int32(sy), size
}

// drawTiles renders the visible terrain, optionally tinted by oxygen.
func (g *Game) drawTiles() {
	x0, y0, x1, y1 := g.visibleTileBounds()
	showOxygen := g.overlays.IsEnabled(ui.OverlayOxygen)
	showGrid := g.overlays.IsEnabled(ui.OverlayTileGrid)
	field := g.oxygen.Field()

	for ty := y0; ty < y1; ty++ {
		for tx := x0; tx < x1; tx++ {
			info := systems.TileInfos[g.tilemap.KindAt(tx, ty)]
			sx, sy, size := g.tileScreenRect(tx, ty)
			rl.DrawRectangle(sx, sy, size, size, rl.Color{R: info.R, G: info.G, B: info.B, A: 255})

			if showOxygen {
				level := field.Level(components.TilePos{X: tx, Y: ty})
				alpha := uint8(level * 120)
				rl.DrawRectangle(sx, sy, size, size, rl.Color{R: 60, G: 120, B: 255, A: alpha})
			}
			if showGrid {
				rl.DrawRectangleLines(sx, sy, size, size, rl.Color{R: 0, G: 0, B: 0, A: 40})
			}
		}
	}
}

// drawElectrical renders the power overlay: wires and structures, dim
// while under construction, bright when powered.
func (g *Game) drawElectrical() {
	if !g.overlays.IsEnabled(ui.OverlayPower) {
		return
	}

	g.tilemap.EachElectrical(func(e *systems.Electrical) {
		var col rl.Color
		switch e.Kind {
		case systems.ElecWire:
			col = rl.Color{R: 230, G: 190, B: 60, A: 255}
		case systems.ElecReactor:
			col = rl.Color{R: 80, G: 160, B: 255, A: 255}
		case systems.ElecLifeSupport:
			col = rl.Color{R: 80, G: 230, B: 230, A: 255}
		}
		if e.UnderConstruction {
			col.A = 110
		} else if e.Kind == systems.ElecLifeSupport && !e.Powered {
			col = rl.Color{R: 120, G: 120, B: 120, A: 255}
		}

		for _, tile := range e.Footprint() {
			sx, sy, size := g.tileScreenRect(tile.X, tile.Y)
			inset := size / 4
			if e.Size > 1 {
				inset = size / 8
			}
			rl.DrawRectangle(sx+inset, sy+inset, size-inset*2, size-inset*2, col)
		}
	})
}

// drawTaskMarkers outlines tiles with posted work.
func (g *Game) drawTaskMarkers() {
	g.board.EachTask(func(t *systems.Task) {
		sx, sy, size := g.tileScreenRect(t.Tile.X, t.Tile.Y)
		col := rl.Orange
		if !t.Assignee.IsZero() {
			col = rl.Green
		}
		rl.DrawRectangleLines(sx, sy, size, size, col)
	})
}

// drawReservations shades tiles currently claimed by movers.
func (g *Game) drawReservations() {
	g.reservations.Each(func(tile components.TilePos, _ ecs.Entity) {
		sx, sy, size := g.tileScreenRect(tile.X, tile.Y)
		rl.DrawRectangle(sx, sy, size, size, rl.Color{R: 255, G: 60, B: 60, A: 60})
	})
}

// drawFood renders food items as small diamonds.
func (g *Game) drawFood() {
	query := g.foodFilter.Query()
	for query.Next() {
		pos, food := query.Get()
		if food.Eaten {
			continue
		}
		if !g.camera.IsVisible(float32(pos.X), float32(pos.Y), 16) {
			continue
		}
		sx, sy := g.camera.WorldToScreen(float32(pos.X), float32(pos.Y))
		r := 5 * g.camera.Zoom
		tint := rl.Color{R: 240, G: 200, B: 60, A: 255}
		if g.tintMap.HasAll(query.Entity()) {
			t := g.tintMap.Get(query.Entity())
			tint = rl.Color{R: t.R, G: t.G, B: t.B, A: t.A}
		}
		rl.DrawPoly(rl.Vector2{X: sx, Y: sy}, 4, r, 45, tint)
	}
}

// drawEntities renders cats, humans and the alien with vitals bars.
func (g *Game) drawEntities() {
	radius := float32(g.tilemap.TileSize) * 0.35

	query := g.moverFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		e := query.Entity()
		if !g.camera.IsVisible(float32(pos.X), float32(pos.Y), radius*2) {
			continue
		}
		sx, sy := g.camera.WorldToScreen(float32(pos.X), float32(pos.Y))
		r := radius * g.camera.Zoom

		tint := rl.White
		if g.tintMap.HasAll(e) {
			t := g.tintMap.Get(e)
			tint = rl.Color{R: t.R, G: t.G, B: t.B, A: t.A}
		}

		downed := g.captMap.HasAll(e) && g.captMap.Get(e).State != components.CaptureNone
		if downed {
			tint.A = 150
		}
		rl.DrawCircle(int32(sx), int32(sy), r, tint)

		// Stealthed alien gets a dashed-looking outline instead of a ring
		if e == g.alien {
			outline := rl.White
			pc := g.playerMap.Get(e)
			if pc.Detected {
				outline = rl.Red
			} else if pc.Stealth {
				outline = rl.Color{R: 160, G: 160, B: 160, A: 200}
			}
			rl.DrawCircleLines(int32(sx), int32(sy), r+3, outline)
		}
		if downed {
			rl.DrawLine(int32(sx-r), int32(sy-r), int32(sx+r), int32(sy+r), rl.Black)
			rl.DrawLine(int32(sx-r), int32(sy+r), int32(sx+r), int32(sy-r), rl.Black)
		}

		g.drawVitals(e, sx, sy-r-8, r*2)
	}
}

// drawVitals draws a health bar above damaged entities.
func (g *Game) drawVitals(e ecs.Entity, sx, sy, width float32) {
	if !g.healthMap.HasAll(e) {
		return
	}
	h := g.healthMap.Get(e)
	if h.Current >= h.Max {
		return
	}
	frac := float32(h.Current / h.Max)
	rl.DrawRectangle(int32(sx-width/2), int32(sy), int32(width), 3, rl.Color{R: 40, G: 40, B: 40, A: 200})
	col := rl.Green
	if frac < 0.3 {
		col = rl.Red
	} else if frac < 0.6 {
		col = rl.Yellow
	}
	rl.DrawRectangle(int32(sx-width/2), int32(sy), int32(width*frac), 3, col)
}

// drawWirePreview shows the pending wire run while dragging.
func (g *Game) drawWirePreview() {
	if g.buildMode != BuildWire || !g.wireDragging {
		return
	}
	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	end := g.tilemap.WorldToTile(float64(wx), float64(wy))

	for _, tile := range systems.BresenhamLine(g.wireStart, end) {
		sx, sy, size := g.tileScreenRect(tile.X, tile.Y)
		rl.DrawRectangle(sx, sy, size, size, rl.Color{R: 230, G: 190, B: 60, A: 90})
	}
}

// drawHUD renders the top-left status block.
func (g *Game) drawHUD() {
	catCount, humanCount := g.livingCounts()

	data := ui.HUDData{
		Title:          "Mothership",
		CatCount:       catCount,
		HumanCount:     humanCount,
		Tick:           g.tick,
		Speed:          g.stepsPerUpdate,
		FPS:            rl.GetFPS(),
		Paused:         g.paused,
		TasksAvailable: g.board.AvailableCount(),
		TasksAssigned:  g.board.AssignedCount(),
		TasksCompleted: g.board.CompletedCount(),
		OxygenMean:     g.oxygen.Field().Mean(),
		BuildMode:      g.buildMode.String(),
		ScreenWidth:    int32(g.screenWidth),
		ScreenHeight:   int32(g.screenHeight),
	}
	if !g.alien.IsZero() {
		pc := g.playerMap.Get(g.alien)
		data.Stealth = pc.Stealth
		data.Detected = pc.Detected
		data.Carrying = g.carrMap.Get(g.alien).Carrying
	}
	g.hud.Draw(data)
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"RMB move | 1 wire 2 reactor 3 life support | C capture | X release | S stealth | Tab overlays | Space pause")
}

// drawSelectionPanel shows the alien's details while it lives.
func (g *Game) drawSelectionPanel() {
	if g.alien.IsZero() {
		return
	}
	e := g.alien
	pos := g.posMap.Get(e)
	tile := g.tilemap.WorldToTile(pos.X, pos.Y)
	health := g.healthMap.Get(e)
	pc := g.playerMap.Get(e)

	state := "idle"
	if g.pathMap.Get(e).Active() {
		state = "moving"
	}
	if g.carrMap.Get(e).Carrying {
		state = "carrying"
	}

	data := ui.SelectionData{
		Label:     g.entityLabel(e),
		TileX:     tile.X,
		TileY:     tile.Y,
		State:     state,
		Health:    health.Current,
		MaxHealth: health.Max,
		Stealth:   pc.Stealth,
		Detected:  pc.Detected,
		Carrying:  g.carrMap.Get(e).Carrying,
	}
	if g.moraleMap.HasAll(e) {
		m := g.moraleMap.Get(e)
		data.HasMorale = true
		data.Morale = m.Current
		data.MaxMorale = m.Max
	}
	g.selectionPanel.Draw(data)
}

// livingCounts tallies cats and humans still alive.
func (g *Game) livingCounts() (int, int) {
	cats := 0
	catQuery := g.catFilter.Query()
	for catQuery.Next() {
		_, health, _ := catQuery.Get()
		if health.Current > 0 {
			cats++
		}
	}
	humans := 0
	humanQuery := g.humanFilter.Query()
	for humanQuery.Next() {
		_, health, _ := humanQuery.Get()
		if health.Current > 0 {
			humans++
		}
	}
	return cats, humans
}
