package scene

import "sync"

// World is an append-only list of objects. Pushing is safe while other
// goroutines read a snapshot from Objects.
type World struct {
	mu      sync.RWMutex
	objects []*Object
}

// PushObject appends o.
func (w *World) PushObject(o *Object) {
	w.mu.Lock()
	w.objects = append(w.objects, o)
	w.mu.Unlock()
}

// Objects returns the objects in insertion order.
func (w *World) Objects() []*Object {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.objects[:len(w.objects):len(w.objects)]
}

// Len returns the number of objects.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.objects)
}
