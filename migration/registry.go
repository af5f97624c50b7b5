package migration

import (
	"fmt"
)

// Key identifies the migration that upgrades a named schema from Version to
// Version+1.
type Key struct {
	Schema  string
	Version int
}

// Registry stores migrations keyed by (schema name, version). It is a
// copy-on-write value like the schema registry: Register returns a new
// Registry, so instances are safe to share read-only.
type Registry struct {
	entries map[Key]Migration
}

// NewRegistry returns an empty migration registry.
func NewRegistry() Registry {
	return Registry{entries: map[Key]Migration{}}
}

// Register returns a copy with the step schema@version -> version+1 bound.
func (r Registry) Register(schema string, version int, m Migration) Registry {
	entries := make(map[Key]Migration, len(r.entries)+1)
	for k, v := range r.entries {
		entries[k] = v
	}
	entries[Key{Schema: schema, Version: version}] = m
	return Registry{entries: entries}
}

// Lookup returns the step upgrading schema@version to version+1.
func (r Registry) Lookup(schema string, version int) (Migration, bool) {
	m, ok := r.entries[Key{Schema: schema, Version: version}]
	return m, ok
}

// Plan composes the registered steps taking schema@from to schema@to.
// Downgrades (from > to) use each step's Reverse. A missing step is an
// error; equal versions yield the empty migration.
func (r Registry) Plan(schema string, from, to int) (Migration, error) {
	var plan Migration
	switch {
	case from < to:
		for v := from; v < to; v++ {
			step, ok := r.Lookup(schema, v)
			if !ok {
				return nil, fmt.Errorf("migration: no step registered for %s@%d", schema, v)
			}
			plan = plan.Then(step)
		}
	case from > to:
		for v := from; v > to; v-- {
			step, ok := r.Lookup(schema, v-1)
			if !ok {
				return nil, fmt.Errorf("migration: no step registered for %s@%d", schema, v-1)
			}
			plan = plan.Then(step.Reverse())
		}
	}
	return plan, nil
}
