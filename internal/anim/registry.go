package anim

import (
	"sort"
	"time"
)

// App is a driver that reacts to the up and down buttons.
type App interface {
	Driver
	Up()
	Down()
	Interval() time.Duration
}

type Registry struct {
	m     map[string]App
	order []string
}

func NewRegistry() *Registry { return &Registry{m: map[string]App{}} }

// Register keeps registration order, which is the mode button order.
func (r *Registry) Register(name string, a App) {
	if a == nil {
		return
	}
	if _, ok := r.m[name]; !ok {
		r.order = append(r.order, name)
	}
	r.m[name] = a
}

func (r *Registry) Get(name string) (App, bool) { a, ok := r.m[name]; return a, ok }

func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

func (r *Registry) List() []string {
	out := r.Names()
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int { return len(r.order) }
