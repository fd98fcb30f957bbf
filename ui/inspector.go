package ui

import (
	"fmt"
	"strings"
)

// SelectionData holds everything the selection panel shows about the
// currently selected entity.
type SelectionData struct {
	Label  string
	TileX  int
	TileY  int
	State  string
	Traits []string

	Health    float64
	MaxHealth float64

	HasMorale bool
	Morale    float64
	MaxMorale float64

	HasHunger bool
	Hunger    float64
	MaxHunger float64

	Stealth  bool
	Detected bool
	Carrying bool
}

// SelectionPanel renders details for the selected entity.
type SelectionPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewSelectionPanel creates a selection panel at a fixed position.
func NewSelectionPanel(x, y, width int32) *SelectionPanel {
	return &SelectionPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the panel.
func (p *SelectionPanel) Draw(data SelectionData) {
	r := p.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	lines := int32(4)
	if data.HasMorale {
		lines++
	}
	if data.HasHunger {
		lines++
	}
	if len(data.Traits) > 0 {
		lines++
	}
	height := lines*(lineHeight+2) + padding*2 + lineHeight

	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := p.y + padding
	innerWidth := p.width - padding*2

	y = r.DrawSectionHeader(x, y, strings.ToUpper(data.Label))
	y = r.DrawLabelValue(x, y, "Tile", formatTile(data.TileX, data.TileY), innerWidth)
	y = r.DrawLabelValue(x, y, "State", data.State, innerWidth)
	y = r.DrawVitalBar(x, y, "Health", data.Health, data.MaxHealth, innerWidth)
	if data.HasMorale {
		y = r.DrawVitalBar(x, y, "Morale", data.Morale, data.MaxMorale, innerWidth)
	}
	if data.HasHunger {
		y = r.DrawVitalBar(x, y, "Hunger", data.Hunger, data.MaxHunger, innerWidth)
	}
	if len(data.Traits) > 0 {
		r.DrawLabelValue(x, y, "Traits", strings.Join(data.Traits, ", "), innerWidth)
	}
}

func formatTile(x, y int) string {
	return fmt.Sprintf("(%d, %d)", x, y)
}
