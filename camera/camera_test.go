package camera

import (
	"math"
	"testing"
)

func testCamera() *Camera {
	return New(1280, 720, 3200, 3200, 0.5, 2.0)
}

func TestNewCenteredOnWorld(t *testing.T) {
	cam := testCamera()
	if cam.X != 1600 || cam.Y != 1600 {
		t.Errorf("camera at (%f, %f), want the world center (1600, 1600)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("zoom = %f, want 1.0", cam.Zoom)
	}
}

func TestWorldScreenRoundTrip(t *testing.T) {
	cam := testCamera()
	cam.Pan(123, -45)
	cam.SetZoom(1.5)

	wx, wy := float32(900), float32(1100)
	sx, sy := cam.WorldToScreen(wx, wy)
	gx, gy := cam.ScreenToWorld(sx, sy)
	if math.Abs(float64(gx-wx)) > 0.01 || math.Abs(float64(gy-wy)) > 0.01 {
		t.Errorf("round trip (%f, %f) -> (%f, %f)", wx, wy, gx, gy)
	}
}

func TestWorldCenterMapsToScreenCenter(t *testing.T) {
	cam := testCamera()
	sx, sy := cam.WorldToScreen(cam.X, cam.Y)
	if sx != 640 || sy != 360 {
		t.Errorf("world center on screen at (%f, %f), want (640, 360)", sx, sy)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := testCamera()
	cam.SetZoom(10)
	if cam.Zoom != 2.0 {
		t.Errorf("zoom = %f, want clamped to 2.0", cam.Zoom)
	}
	cam.SetZoom(0.01)
	if cam.Zoom != 0.5 {
		t.Errorf("zoom = %f, want clamped to 0.5", cam.Zoom)
	}
	cam.ZoomBy(100)
	if cam.Zoom != 2.0 {
		t.Error("ZoomBy escaped the clamp")
	}
}

func TestPanClampedToWorld(t *testing.T) {
	cam := testCamera()
	cam.Pan(-1e9, -1e9)
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("camera at (%f, %f), want clamped to (0, 0)", cam.X, cam.Y)
	}
	cam.Pan(1e9, 1e9)
	if cam.X != 3200 || cam.Y != 3200 {
		t.Errorf("camera at (%f, %f), want clamped to (3200, 3200)", cam.X, cam.Y)
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	cam := testCamera()
	cam.SetZoom(2.0)
	startX := cam.X
	cam.Pan(100, 0)
	if got := cam.X - startX; got != 50 {
		t.Errorf("pan moved %f world units at 2x zoom, want 50", got)
	}
}

func TestIsVisible(t *testing.T) {
	cam := testCamera()
	if !cam.IsVisible(cam.X, cam.Y, 10) {
		t.Error("world center not visible")
	}
	if cam.IsVisible(cam.X+5000, cam.Y, 10) {
		t.Error("far-off point reported visible")
	}
	// Just outside the edge but within the radius margin
	if !cam.IsVisible(cam.X+645, cam.Y, 10) {
		t.Error("point within the culling margin reported hidden")
	}
}

func TestVisibleWorldBounds(t *testing.T) {
	cam := testCamera()
	cam.SetZoom(2.0)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if maxX-minX != 640 || maxY-minY != 360 {
		t.Errorf("visible area %fx%f at 2x zoom, want 640x360", maxX-minX, maxY-minY)
	}
}

func TestReset(t *testing.T) {
	cam := testCamera()
	cam.Pan(500, 500)
	cam.SetZoom(2.0)
	cam.Reset()
	if cam.X != 1600 || cam.Y != 1600 || cam.Zoom != 1.0 {
		t.Error("reset did not restore defaults")
	}
}

func TestResize(t *testing.T) {
	cam := testCamera()
	cam.Resize(1920, 1080)
	sx, sy := cam.WorldToScreen(cam.X, cam.Y)
	if sx != 960 || sy != 540 {
		t.Errorf("center at (%f, %f) after resize, want (960, 540)", sx, sy)
	}
}
