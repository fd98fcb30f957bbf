package systems

import (
	"github.com/pthm-cable/mothership/components"
)

// PowerSystem distributes reactor output to consumers over built wires.
// Each pass starts from scratch: powered flags clear, reactor budgets
// reset, and every consumer tries to reach a reactor with capacity left.
type PowerSystem struct {
	tm  *Tilemap
	rec Recorder

	// Scratch buffers reused between passes
	reactors  []*Electrical
	consumers []*Electrical
	visited   map[components.TilePos]bool
	frontier  []components.TilePos
}

// NewPowerSystem creates the power distribution pass.
func NewPowerSystem(tm *Tilemap, rec Recorder) *PowerSystem {
	return &PowerSystem{
		tm:      tm,
		rec:     rec,
		visited: make(map[components.TilePos]bool),
	}
}

// Update recomputes the powered state of every consumer.
func (s *PowerSystem) Update() {
	s.reactors = s.reactors[:0]
	s.consumers = s.consumers[:0]
	s.tm.EachElectrical(func(e *Electrical) {
		if e.UnderConstruction {
			return
		}
		switch e.Kind {
		case ElecReactor:
			s.reactors = append(s.reactors, e)
		case ElecLifeSupport:
			s.consumers = append(s.consumers, e)
		}
	})

	budgets := make([]float64, len(s.reactors))
	for i, r := range s.reactors {
		budgets[i] = r.Capacity
		r.Powered = true
	}

	for _, c := range s.consumers {
		wasPowered := c.Powered
		c.Powered = false
		for i, r := range s.reactors {
			if budgets[i] < c.Demand {
				continue
			}
			if s.connected(r, c) {
				budgets[i] -= c.Demand
				c.Powered = true
				break
			}
		}
		if c.Powered != wasPowered {
			s.rec.PowerChanged(c.Kind.String(), c.Origin, c.Powered)
		}
	}
}

// connected walks the wire graph from a reactor looking for the consumer.
// Only built components conduct.
func (s *PowerSystem) connected(from, to *Electrical) bool {
	clear(s.visited)
	s.frontier = s.frontier[:0]

	for _, t := range from.Footprint() {
		s.visited[t] = true
		s.frontier = append(s.frontier, t)
	}

	for len(s.frontier) > 0 {
		tile := s.frontier[0]
		s.frontier = s.frontier[1:]

		e := s.tm.ElectricalAt(tile)
		if e == nil || e.UnderConstruction {
			continue
		}
		if e == to {
			return true
		}
		for _, next := range e.ConnectedTiles {
			if s.visited[next] {
				continue
			}
			s.visited[next] = true
			s.frontier = append(s.frontier, next)
		}
	}
	return false
}
