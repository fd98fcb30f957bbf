package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	CatCount       int
	HumanCount     int
	Tick           int64
	Speed          int
	FPS            int32
	Paused         bool
	TasksAvailable int
	TasksAssigned  int
	TasksCompleted int
	OxygenMean     float64
	BuildMode      string
	Stealth        bool
	Detected       bool
	Carrying       bool
	ScreenWidth    int32
	ScreenHeight   int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Cats: %d | Humans: %d | O2 avg: %.2f", data.CatCount, data.HumanCount, data.OxygenMean),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tasks: %d open, %d claimed, %d done", data.TasksAvailable, data.TasksAssigned, data.TasksCompleted),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.BuildMode != "off" {
		status += " | build: " + data.BuildMode
	}
	if data.Stealth {
		status += " | stealth"
	}
	if data.Detected {
		status += " | DETECTED"
	}
	if data.Carrying {
		status += " | carrying"
	}
	rl.DrawText(status, 10, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
