package drag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMountCentersPanelOnce(t *testing.T) {
	p := NewPanel(NewBus())

	if !p.Mount(Box{Left: 2, Top: 3, Width: 400, Height: 600}) {
		t.Fatalf("first mount should apply")
	}
	if diff := cmp.Diff(Point{X: 202, Y: 303}, p.Position()); diff != "" {
		t.Fatalf("position mismatch (-want +got):\n%s", diff)
	}
	if p.Mount(Box{Width: 10, Height: 10}) {
		t.Fatalf("second mount must be ignored")
	}
	if diff := cmp.Diff(Point{X: 202, Y: 303}, p.Position()); diff != "" {
		t.Fatalf("position changed after remount (-want +got):\n%s", diff)
	}
}

func TestDragKeepsGrabOffset(t *testing.T) {
	bus := NewBus()
	p := NewPanel(bus)
	p.Mount(Box{Width: 80, Height: 90})

	if !p.Press(Point{X: 50, Y: 60}, Point{X: 40, Y: 45}) {
		t.Fatalf("press rejected")
	}
	bus.Dispatch(Event{Kind: EventMove, Pointer: Point{X: 120, Y: 130}})

	if diff := cmp.Diff(Point{X: 110, Y: 115}, p.Position()); diff != "" {
		t.Fatalf("position mismatch (-want +got):\n%s", diff)
	}
}

func TestListenersHeldOnlyWhileDragging(t *testing.T) {
	bus := NewBus()
	p := NewPanel(bus)

	if bus.Listeners() != 0 {
		t.Fatalf("no listeners expected before press")
	}
	p.Press(Point{X: 1, Y: 1}, Point{})
	if bus.Listeners() != 1 {
		t.Fatalf("expected one listener while dragging, got %d", bus.Listeners())
	}

	bus.Dispatch(Event{Kind: EventUp})
	if p.Dragging() {
		t.Fatalf("pointer up should end the drag")
	}
	if bus.Listeners() != 0 {
		t.Fatalf("listeners must be released on pointer up, got %d", bus.Listeners())
	}

	before := p.Position()
	bus.Dispatch(Event{Kind: EventMove, Pointer: Point{X: 500, Y: 500}})
	if p.Position() != before {
		t.Fatalf("moves after release must be ignored")
	}
}

func TestSecondPressWhileDraggingIsIgnored(t *testing.T) {
	bus := NewBus()
	p := NewPanel(bus)

	p.Press(Point{X: 10, Y: 10}, Point{X: 0, Y: 0})
	if p.Press(Point{X: 90, Y: 90}, Point{X: 0, Y: 0}) {
		t.Fatalf("concurrent drag must be rejected")
	}
	if bus.Listeners() != 1 {
		t.Fatalf("expected a single listener, got %d", bus.Listeners())
	}
	p.Move(Point{X: 30, Y: 30})
	if diff := cmp.Diff(Point{X: 20, Y: 20}, p.Position()); diff != "" {
		t.Fatalf("first grab offset must persist (-want +got):\n%s", diff)
	}
}

func TestCloseReleasesListenersMidDrag(t *testing.T) {
	bus := NewBus()
	p := NewPanel(bus)

	p.Press(Point{}, Point{})
	p.Close()

	if p.Dragging() || bus.Listeners() != 0 {
		t.Fatalf("close must end the drag and drop listeners")
	}
}
