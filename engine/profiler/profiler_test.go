package profiler

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeTime{t: time.Unix(1000, 0)}
	var lines []string
	p := NewProfiler(
		WithTimeSource(clock.now),
		WithUpdateInterval(500*time.Millisecond),
		WithLogFunc(func(format string, args ...any) {
			lines = append(lines, fmt.Sprintf(format, args...))
		}),
	)

	for i := 0; i < 49; i++ {
		clock.advance(10 * time.Millisecond)
		if p.Tick() {
			t.Fatalf("Frame %d: expected no report before the interval elapsed", i)
		}
	}
	clock.advance(10 * time.Millisecond)
	if !p.Tick() {
		t.Fatalf("Expected a report once the interval elapsed")
	}

	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "[Profiler] FPS: 100.00") {
		t.Errorf("Expected a 100 FPS line, got %q", lines[0])
	}
	if s := p.Last(); s.Frames != 50 {
		t.Errorf("Expected 50 frames in the window, got %d", s.Frames)
	}
}

func TestTickResetsWindow(t *testing.T) {
	clock := &fakeTime{t: time.Unix(0, 0)}
	p := NewProfiler(
		WithTimeSource(clock.now),
		WithUpdateInterval(100*time.Millisecond),
		WithLogFunc(func(string, ...any) {}),
	)

	clock.advance(100 * time.Millisecond)
	p.Tick()
	for i := 0; i < 4; i++ {
		clock.advance(50 * time.Millisecond)
		p.Tick()
	}
	if s := p.Last(); s.Frames != 2 || s.FPS != 20 {
		t.Errorf("Expected 2 frames at 20 FPS in the last window, got %d at %v", s.Frames, s.FPS)
	}
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0), WithLogFunc(nil), WithTimeSource(nil))
	if p.updateInterval != time.Second {
		t.Errorf("Expected default interval, got %v", p.updateInterval)
	}
	if p.logf == nil || p.now == nil {
		t.Errorf("Expected defaults to survive nil options")
	}
}
