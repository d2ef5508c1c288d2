package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// PriorityManual is for backends that must be requested explicitly by name
// and are never picked by the automatic selection.
const PriorityManual = -1

type namedFactory interface {
	BackendName() string
}

type factoryWithPriority[F namedFactory] struct {
	Priority int
	Factory  F
}

// factoryRegistry keeps one factory per implementation type and per
// backend name.
type factoryRegistry[F namedFactory] struct {
	kind    string
	locker  sync.Mutex
	entries map[reflect.Type]factoryWithPriority[F]
}

func newFactoryRegistry[F namedFactory](kind string) *factoryRegistry[F] {
	return &factoryRegistry[F]{
		kind:    kind,
		entries: map[reflect.Type]factoryWithPriority[F]{},
	}
}

func (r *factoryRegistry[F]) register(priority int, factory F) {
	r.locker.Lock()
	defer r.locker.Unlock()

	t := reflect.ValueOf(factory).Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if _, ok := r.entries[t]; ok {
		panic(fmt.Errorf("there is already registered a factory of %s of type %v", r.kind, t))
	}
	for _, entry := range r.entries {
		if entry.Factory.BackendName() == factory.BackendName() {
			panic(fmt.Errorf("there is already registered a factory of %s with name '%s'", r.kind, factory.BackendName()))
		}
	}
	r.entries[t] = factoryWithPriority[F]{
		Priority: priority,
		Factory:  factory,
	}
}

// byPriority returns the factories eligible for the automatic selection,
// the most preferred first. Equal priorities are ordered by name.
func (r *factoryRegistry[F]) byPriority() []F {
	r.locker.Lock()
	var entries []factoryWithPriority[F]
	for _, entry := range r.entries {
		if entry.Priority < 0 {
			continue
		}
		entries = append(entries, entry)
	}
	r.locker.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Factory.BackendName() < entries[j].Factory.BackendName()
	})

	factories := make([]F, 0, len(entries))
	for _, entry := range entries {
		factories = append(factories, entry.Factory)
	}
	return factories
}

func (r *factoryRegistry[F]) byName(name string) (F, bool) {
	r.locker.Lock()
	defer r.locker.Unlock()
	for _, entry := range r.entries {
		if entry.Factory.BackendName() == name {
			return entry.Factory, true
		}
	}
	var zero F
	return zero, false
}

func (r *factoryRegistry[F]) names() []string {
	r.locker.Lock()
	defer r.locker.Unlock()
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.Factory.BackendName())
	}
	sort.Strings(names)
	return names
}
