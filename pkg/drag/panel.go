package drag

import "sync"

// Panel tracks the result panel position. At most one drag is active at a
// time and viewport listeners are only held while it is.
type Panel struct {
	mu          sync.Mutex
	viewport    Viewport
	position    Point
	mounted     bool
	dragging    bool
	offset      Point
	unsubscribe func()
}

// NewPanel binds a panel to the viewport that supplies pointer events.
func NewPanel(viewport Viewport) *Panel {
	return &Panel{viewport: viewport}
}

// Mount anchors the panel at the center of the hosting form's box. Only the
// first call has an effect.
func (p *Panel) Mount(box Box) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mounted {
		return false
	}
	p.mounted = true
	p.position = box.Anchor()
	return true
}

// Mounted reports whether Mount ran.
func (p *Panel) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// Position returns the panel's current top-left corner.
func (p *Panel) Position() Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Dragging reports whether a drag is in progress.
func (p *Panel) Dragging() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dragging
}

// Press starts a drag, capturing pointer - topLeft as the grab offset and
// subscribing to viewport move/up events. It returns false when a drag is
// already active.
func (p *Panel) Press(pointer, topLeft Point) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dragging {
		return false
	}
	p.dragging = true
	p.offset = pointer.Sub(topLeft)
	if p.viewport != nil {
		p.unsubscribe = p.viewport.Subscribe(p.handle)
	}
	return true
}

// Move repositions the panel while dragging.
func (p *Panel) Move(pointer Point) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.dragging {
		return
	}
	p.position = pointer.Sub(p.offset)
}

// Release ends the drag and drops the viewport listeners.
func (p *Panel) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLocked()
}

// Close tears the panel down, releasing listeners even mid-drag.
func (p *Panel) Close() {
	p.Release()
}

func (p *Panel) handle(ev Event) {
	switch ev.Kind {
	case EventMove:
		p.Move(ev.Pointer)
	case EventUp:
		p.Release()
	}
}

func (p *Panel) endLocked() {
	p.dragging = false
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
