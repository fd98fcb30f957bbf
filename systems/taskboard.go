package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mothership/components"
)

// TaskType identifies work the crew can perform.
type TaskType uint8

const (
	TaskWireConstruction TaskType = iota
	TaskStructureConstruction
)

func (t TaskType) String() string {
	switch t {
	case TaskWireConstruction:
		return "wire_construction"
	case TaskStructureConstruction:
		return "structure_construction"
	}
	return "unknown"
}

// Task is one unit of work posted on the board.
type Task struct {
	ID        int
	Type      TaskType
	Tile      components.TilePos
	Priority  int // 1 normal, 2 high, 3 critical
	WorkTime  float64
	Progress  float64
	Assignee  ecs.Entity // Zero when unassigned
	Completed bool
}

// ShouldInterrupt reports whether the task is urgent enough to pull idle
// crew off whatever they are doing.
func (t *Task) ShouldInterrupt(minPriority int) bool {
	return t.Priority >= minPriority
}

// TaskBoard holds available and assigned tasks.
type TaskBoard struct {
	nextID    int
	available []*Task
	assigned  []*Task
	byID      map[int]*Task
	completed int
}

// NewTaskBoard creates an empty board.
func NewTaskBoard() *TaskBoard {
	return &TaskBoard{nextID: 1, byID: make(map[int]*Task)}
}

// Add posts a new task and returns it.
func (b *TaskBoard) Add(taskType TaskType, tile components.TilePos, priority int, workTime float64) *Task {
	t := &Task{
		ID:       b.nextID,
		Type:     taskType,
		Tile:     tile,
		Priority: priority,
		WorkTime: workTime,
	}
	b.nextID++
	b.available = append(b.available, t)
	b.byID[t.ID] = t
	return t
}

// Get returns the task with the given id, or nil.
func (b *TaskBoard) Get(id int) *Task {
	return b.byID[id]
}

// AvailableCount returns the number of unclaimed tasks.
func (b *TaskBoard) AvailableCount() int { return len(b.available) }

// AssignedCount returns the number of claimed tasks.
func (b *TaskBoard) AssignedCount() int { return len(b.assigned) }

// CompletedCount returns how many tasks have been finished.
func (b *TaskBoard) CompletedCount() int { return b.completed }

// EachTask visits every live task, available first, then assigned.
func (b *TaskBoard) EachTask(fn func(*Task)) {
	for _, t := range b.available {
		fn(t)
	}
	for _, t := range b.assigned {
		fn(t)
	}
}

// ClaimNearest assigns the available task closest to the given tile by
// squared tile distance, considering only tasks at or above minPriority.
// Returns nil when nothing qualifies.
func (b *TaskBoard) ClaimNearest(e ecs.Entity, from components.TilePos, minPriority int) *Task {
	bestIdx := -1
	bestDist := 0
	for i, t := range b.available {
		if t.Priority < minPriority {
			continue
		}
		dx := t.Tile.X - from.X
		dy := t.Tile.Y - from.Y
		d := dx*dx + dy*dy
		if bestIdx < 0 || d < bestDist {
			bestIdx = i
			bestDist = d
		}
	}
	if bestIdx < 0 {
		return nil
	}
	t := b.available[bestIdx]
	b.available[bestIdx] = b.available[len(b.available)-1]
	b.available = b.available[:len(b.available)-1]
	t.Assignee = e
	t.Progress = 0
	b.assigned = append(b.assigned, t)
	return t
}

// ClaimByID assigns a specific task when it is still on the available
// list. Returns nil when the task is gone, completed or already taken.
func (b *TaskBoard) ClaimByID(id int, e ecs.Entity) *Task {
	t := b.byID[id]
	if t == nil || t.Completed || !t.Assignee.IsZero() {
		return nil
	}
	for i, a := range b.available {
		if a != t {
			continue
		}
		b.available[i] = b.available[len(b.available)-1]
		b.available = b.available[:len(b.available)-1]
		t.Assignee = e
		t.Progress = 0
		b.assigned = append(b.assigned, t)
		return t
	}
	return nil
}

// InWorkRange reports whether a worker tile is close enough to the task
// tile for progress to accrue (Chebyshev distance).
func (t *Task) InWorkRange(worker components.TilePos, rangeTiles int) bool {
	dx := abs(worker.X - t.Tile.X)
	dy := abs(worker.Y - t.Tile.Y)
	if dy > dx {
		dx = dy
	}
	return dx <= rangeTiles
}

// Progress accrues work on an assigned task. Progress only advances while
// the worker is in range. Returns true when the task completes; the
// caller finishes the construction it stands for.
func (b *TaskBoard) Progress(t *Task, dt float64, inRange bool) bool {
	if t.Completed || t.Assignee.IsZero() {
		return false
	}
	if !inRange {
		return false
	}
	t.Progress += dt
	if t.Progress < t.WorkTime {
		return false
	}
	t.Completed = true
	b.removeAssigned(t)
	delete(b.byID, t.ID)
	b.completed++
	return true
}

// Release puts an assigned task back on the board with progress reset.
func (b *TaskBoard) Release(t *Task) {
	if t == nil || t.Completed || t.Assignee.IsZero() {
		return
	}
	b.removeAssigned(t)
	t.Assignee = ecs.Entity{}
	t.Progress = 0
	b.available = append(b.available, t)
}

// ReleaseFor releases any task assigned to the entity. Called when the
// assignee dies or gets captured; no task state survives the worker.
func (b *TaskBoard) ReleaseFor(e ecs.Entity) {
	for i := len(b.assigned) - 1; i >= 0; i-- {
		if b.assigned[i].Assignee == e {
			b.Release(b.assigned[i])
		}
	}
}

func (b *TaskBoard) removeAssigned(t *Task) {
	for i, a := range b.assigned {
		if a == t {
			b.assigned[i] = b.assigned[len(b.assigned)-1]
			b.assigned = b.assigned[:len(b.assigned)-1]
			return
		}
	}
}
