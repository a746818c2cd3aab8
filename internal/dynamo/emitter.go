package dynamo

// Emitter is a synchronous broadcast of T values. Listeners run in
// subscription order on the emitting goroutine; a listener that
// unsubscribes during delivery still receives the current value.
type Emitter[T any] struct {
	listeners []listener[T]
	nextID    int
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a func that removes it.
func (e *Emitter[T]) Subscribe(fn func(T)) func() {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	return func() { e.remove(id) }
}

func (e *Emitter[T]) remove(id int) {
	for i, l := range e.listeners {
		if l.id == id {
			// copy-on-write so an in-flight Emit keeps its snapshot
			next := make([]listener[T], 0, len(e.listeners)-1)
			next = append(next, e.listeners[:i]...)
			e.listeners = append(next, e.listeners[i+1:]...)
			return
		}
	}
}

func (e *Emitter[T]) Emit(v T) {
	for _, l := range e.listeners {
		l.fn(v)
	}
}

func (e *Emitter[T]) Len() int { return len(e.listeners) }
