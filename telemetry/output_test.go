package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/mothership/components"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("empty dir must disable output, got error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// All operations are no-ops on a nil manager
	if err := om.WriteEvents([]Event{NewFoodEatenEvent(1, 2)}); err != nil {
		t.Error(err)
	}
	if err := om.WriteWindow(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run1")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	events := []Event{
		NewCatDiedEvent(10, 3, "starvation"),
		NewPowerChangedEvent(12, "life_support", components.TilePos{X: 4, Y: 4}, true),
	}
	if err := om.WriteEvents(events); err != nil {
		t.Fatal(err)
	}
	// Second batch appends without another header
	if err := om.WriteEvents([]Event{NewFoodEatenEvent(20, 5)}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteWindow(WindowStats{WindowEndTick: 100, CatCount: 4}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Count(text, "tick") != 1 {
		t.Error("events.csv header written more than once or missing")
	}
	if !strings.Contains(text, "cat_died") || !strings.Contains(text, "starvation") {
		t.Errorf("events.csv missing event rows:\n%s", text)
	}
	if !strings.Contains(text, "food_eaten") {
		t.Error("appended batch missing from events.csv")
	}

	data, err = os.ReadFile(filepath.Join(dir, "windows.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "window_end") {
		t.Error("windows.csv missing header")
	}
}
