// Station map generation preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/mapgenpreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mothership/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30

	gridCols = 120
	gridRows = 120
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Station Map Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := systems.MapGenParams{
		NoiseScale:  0.08,
		RockCutoff:  0.45,
		GrassCutoff: 0.15,
	}
	seed := int64(12345)

	tm := systems.NewTilemap(gridCols, gridRows, 32)

	img := rl.GenImageColor(gridCols, gridRows, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			systems.GenerateStation(tm, seed, params)
			updateTexture(texture, tm)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridCols), Height: float32(gridRows)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Tile distribution stats
		counts := map[systems.TileKind]int{}
		for ty := 0; ty < gridRows; ty++ {
			for tx := 0; tx < gridCols; tx++ {
				counts[tm.KindAt(tx, ty)]++
			}
		}
		total := gridCols * gridRows
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Floor: %d%%  Grass: %d%%  Rock: %d%%",
			counts[systems.TileFloor]*100/total,
			counts[systems.TileGrass]*100/total,
			counts[systems.TileRock]*100/total),
			15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Map Generation Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Noise scale slider
		rl.DrawText("Noise scale (frequency per tile)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.01", "0.3",
			float32(params.NoiseScale), 0.01, 0.3,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.NoiseScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newScale) != params.NoiseScale {
			params.NoiseScale = float64(newScale)
			needsRegen = true
		}
		panelY += 35

		// Rock cutoff slider
		rl.DrawText("Rock cutoff (noise above = rock)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRock := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.0", "1.0",
			float32(params.RockCutoff), 0.0, 1.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.RockCutoff), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newRock) != params.RockCutoff {
			params.RockCutoff = float64(newRock)
			needsRegen = true
		}
		panelY += 35

		// Grass cutoff slider
		rl.DrawText("Grass cutoff (noise above = grass)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newGrass := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"-0.5", "0.5",
			float32(params.GrassCutoff), -0.5, 0.5,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.GrassCutoff), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newGrass) != params.GrassCutoff {
			params.GrassCutoff = float64(newGrass)
			needsRegen = true
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != seed {
			seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = systems.MapGenParams{
				NoiseScale:  0.08,
				RockCutoff:  0.45,
				GrassCutoff: 0.15,
			}
			seed = 12345
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yamlLines := []string{
			"world:",
			fmt.Sprintf("  noise_scale: %.3f", params.NoiseScale),
			fmt.Sprintf("  rock_cutoff: %.2f", params.RockCutoff),
			fmt.Sprintf("  grass_cutoff: %.2f", params.GrassCutoff),
		}
		for _, line := range yamlLines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			yaml := fmt.Sprintf(`world:
  noise_scale: %.3f
  rock_cutoff: %.2f
  grass_cutoff: %.2f`,
				params.NoiseScale, params.RockCutoff, params.GrassCutoff)
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// updateTexture redraws the GPU texture from the tile kinds.
func updateTexture(texture rl.Texture2D, tm *systems.Tilemap) {
	pixels := make([]color.RGBA, tm.Cols*tm.Rows)
	for ty := 0; ty < tm.Rows; ty++ {
		for tx := 0; tx < tm.Cols; tx++ {
			info := systems.TileInfos[tm.KindAt(tx, ty)]
			pixels[ty*tm.Cols+tx] = color.RGBA{R: info.R, G: info.G, B: info.B, A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
