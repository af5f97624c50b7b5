package blockschema

import (
	"net/url"
	"strings"
)

// Registry resolves $ref strings to schema nodes. It is a copy-on-write
// value: Register and friends return a new Registry, so one instance can be
// shared read-only across concurrent validations.
type Registry struct {
	entries map[string]*Schema
	baseURI string
}

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return Registry{entries: map[string]*Schema{}}
}

// RegistryFor builds a registry by indexing the root schema's $id, $anchor
// and $defs (recursively through nested $defs).
func RegistryFor(root *Schema) Registry {
	return NewRegistry().IndexSchema(root)
}

// WithBaseURI returns a copy using base for relative reference resolution.
func (r Registry) WithBaseURI(base string) Registry {
	nr := r.clone()
	nr.baseURI = base
	return nr
}

// BaseURI reports the configured base URI ("" when unset).
func (r Registry) BaseURI() string { return r.baseURI }

// Register returns a copy with ref bound to schema.
func (r Registry) Register(ref string, schema *Schema) Registry {
	nr := r.clone()
	nr.entries[ref] = schema
	return nr
}

// RegisterAll returns a copy with every entry of m bound.
func (r Registry) RegisterAll(m map[string]*Schema) Registry {
	nr := r.clone()
	for k, v := range m {
		nr.entries[k] = v
	}
	return nr
}

// IndexSchema returns a copy extended with the schema's own reference
// targets: its $id (resolved against the base URI), its $anchor, and each
// $defs entry, recursing into nested $defs. Defs bodies are data, never
// executed, so self-referential defs cannot loop this walk.
func (r Registry) IndexSchema(s *Schema) Registry {
	nr := r.clone()
	nr.index(s)
	return nr
}

func (r *Registry) index(s *Schema) {
	if s == nil || s.IsBoolean() {
		return
	}
	if s.ID != nil && *s.ID != "" {
		r.entries[r.resolveURI(*s.ID)] = s
	}
	if s.Anchor != nil && *s.Anchor != "" {
		r.entries["#"+*s.Anchor] = s
	}
	// Defs entries are reachable via #/$defs/<name> without registration, but
	// nested ids/anchors inside them still need indexing.
	for _, d := range s.Defs {
		r.index(d.Schema)
	}
}

// Resolve maps a reference string to a schema node. Supported shapes:
// "#" (root), "#/$defs/X" and "#/definitions/X" (walk the root's defs),
// "#anchor" (registered anchors), and absolute/relative URIs (exact entry,
// then joined against the base URI).
func (r Registry) Resolve(ref string, root *Schema) (*Schema, error) {
	switch {
	case ref == "#" || ref == "":
		if root != nil {
			return root, nil
		}
	case strings.HasPrefix(ref, "#/$defs/"):
		if s := defsWalk(root, strings.TrimPrefix(ref, "#/$defs/")); s != nil {
			return s, nil
		}
	case strings.HasPrefix(ref, "#/definitions/"):
		if s := defsWalk(root, strings.TrimPrefix(ref, "#/definitions/")); s != nil {
			return s, nil
		}
	case strings.HasPrefix(ref, "#"):
		if s, ok := r.entries[ref]; ok {
			return s, nil
		}
	default:
		if s, ok := r.entries[ref]; ok {
			return s, nil
		}
		if s, ok := r.entries[r.resolveURI(ref)]; ok {
			return s, nil
		}
	}
	return nil, Issues{{
		Code:    CodeRefNotResolved,
		Message: "reference not resolved: " + ref,
		Params:  map[string]any{"ref": ref},
	}}
}

// defsWalk follows a (possibly nested) defs path like "Foo" or "Foo/$defs/Bar".
func defsWalk(root *Schema, path string) *Schema {
	if root == nil {
		return nil
	}
	cur := root
	rest := path
	for {
		name, tail, nested := strings.Cut(rest, "/$defs/")
		next, ok := cur.DefsLookup(jsonPointerUnescape(name))
		if !ok {
			return nil
		}
		if !nested {
			return next
		}
		cur, rest = next, tail
	}
}

// jsonPointerUnescape decodes RFC 6901 escapes (~1 before ~0, per the RFC).
func jsonPointerUnescape(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// resolveURI joins a possibly relative reference against the base URI.
func (r Registry) resolveURI(ref string) string {
	if r.baseURI == "" {
		return ref
	}
	base, err := url.Parse(r.baseURI)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func (r Registry) clone() Registry {
	entries := make(map[string]*Schema, len(r.entries)+1)
	for k, v := range r.entries {
		entries[k] = v
	}
	return Registry{entries: entries, baseURI: r.baseURI}
}
