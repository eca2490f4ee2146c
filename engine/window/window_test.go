package window

import "testing"

func TestClampPixelRatio(t *testing.T) {
	tests := []struct {
		name  string
		scale float32
		want  float32
	}{
		{"Standard display", 1, 1},
		{"Retina", 2, 2},
		{"Dense display is capped", 3, MaxPixelRatio},
		{"Fractional scale", 1.25, 1.25},
		{"Unknown scale", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampPixelRatio(tt.scale); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRenderSize(t *testing.T) {
	w, h := renderSize(1280, 720, 1.5)
	if w != 1920 || h != 1080 {
		t.Errorf("Expected 1920x1080, got %dx%d", w, h)
	}
	w, h = renderSize(801, 601, 1)
	if w != 801 || h != 601 {
		t.Errorf("Expected 801x601, got %dx%d", w, h)
	}
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{}
	if w.IsRunning() {
		t.Errorf("Expected an uncreated window to report not running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Errorf("Expected no surface descriptor without a platform window")
	}
	if err := w.Close(); err == nil {
		t.Errorf("Expected Close to fail on an uncreated window")
	}
	w.ProcessMessages()
}

func TestCloseAfterDestroyIsNoop(t *testing.T) {
	w := &engineWindow{internalWindow: &glfwWindow{destroyed: true}}
	for i := 0; i < 2; i++ {
		if err := w.Close(); err != nil {
			t.Fatalf("Close %d: expected nil on a destroyed window, got %v", i+1, err)
		}
	}
	if w.IsRunning() {
		t.Errorf("Expected a destroyed window to report not running")
	}
}

func TestSizeOptions(t *testing.T) {
	w := &engineWindow{}
	WithSize(1024, 576)(w)
	WithMinSize(400, 300)(w)
	WithTitle("ribbon")(w)

	if w.width != 1024 || w.height != 576 {
		t.Errorf("Expected size 1024x576, got %dx%d", w.width, w.height)
	}
	if w.minWidth != 400 || w.minHeight != 300 {
		t.Errorf("Expected min size 400x300, got %dx%d", w.minWidth, w.minHeight)
	}
	if w.title != "ribbon" {
		t.Errorf("Expected title %q, got %q", "ribbon", w.title)
	}
}
