package anim

// Listener receives notifications around collection mutations. The AboutTo*
// methods fire before the mutation lands and the paired past-tense methods
// after it, both carrying the affected index. Delivery is synchronous and
// in registration order: every listener returns before the mutating call
// does, which is what lets undo stacks capture pre-mutation state.
type Listener interface {
	AboutToInsertAt(index int)
	InsertedAt(index int)
	AboutToRemoveAt(index int)
	RemovedAt(index int)
	SelectionChanged()
	CountChanged()
}

// NopListener implements Listener with no-ops so observers can embed it and
// override only the notifications they care about.
type NopListener struct{}

func (NopListener) AboutToInsertAt(int) {}
func (NopListener) InsertedAt(int)      {}
func (NopListener) AboutToRemoveAt(int) {}
func (NopListener) RemovedAt(int)       {}
func (NopListener) SelectionChanged()   {}
func (NopListener) CountChanged()       {}

// AddListener registers l for notifications. Registering the same listener
// twice delivers every notification twice.
func (s *System) AddListener(l Listener) {
	if l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
}

// RemoveListener unregisters the first registration of l.
func (s *System) RemoveListener(l Listener) {
	for i, registered := range s.listeners {
		if registered == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *System) aboutToInsertAt(index int) {
	for _, l := range s.listeners {
		l.AboutToInsertAt(index)
	}
}

func (s *System) insertedAt(index int) {
	for _, l := range s.listeners {
		l.InsertedAt(index)
	}
}

func (s *System) aboutToRemoveAt(index int) {
	for _, l := range s.listeners {
		l.AboutToRemoveAt(index)
	}
}

func (s *System) removedAt(index int) {
	for _, l := range s.listeners {
		l.RemovedAt(index)
	}
}

func (s *System) selectionChanged() {
	for _, l := range s.listeners {
		l.SelectionChanged()
	}
}

func (s *System) countChanged() {
	for _, l := range s.listeners {
		l.CountChanged()
	}
}
