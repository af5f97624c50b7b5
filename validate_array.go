package blockschema

import (
	"github.com/reoring/blockschema/dyn"
)

// validateArray applies the array keywords. The returned context
// carries the union of indices evaluated by prefixItems, items and contains.
func (v *validator) validateArray(s *Schema, arr Array, path dyn.Optic, depth int) vres {
	var res vres
	n := len(arr)

	if s.MinItems != nil && n < *s.MinItems {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeItemsCount,
			map[string]any{"min": *s.MinItems, "actual": n}))
	}
	if s.MaxItems != nil && n > *s.MaxItems {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeItemsCount,
			map[string]any{"max": *s.MaxItems, "actual": n}))
	}

	if s.UniqueItems {
		// Left-to-right scan; the first occurrence is never flagged.
		var seen []Json
		for i, elem := range arr {
			dup := false
			for _, prev := range seen {
				if elem.Equal(prev) {
					dup = true
					break
				}
			}
			if dup {
				res.issues = AppendIssues(res.issues, issueAt(path.Index(i), CodeUniqueItems,
					map[string]any{"index": i}))
			} else {
				seen = append(seen, elem)
			}
		}
	}

	prefix := len(s.PrefixItems)
	for i := 0; i < prefix && i < n; i++ {
		sub := v.validate(s.PrefixItems[i], arr[i], path.Index(i), depth+1)
		res.issues = append(res.issues, sub.issues...)
		res.ctx.markItem(i)
	}
	if s.Items != nil {
		for i := prefix; i < n; i++ {
			sub := v.validate(s.Items, arr[i], path.Index(i), depth+1)
			res.issues = append(res.issues, sub.issues...)
			res.ctx.markItem(i)
		}
	}

	if s.Contains != nil {
		count := 0
		for i, elem := range arr {
			sub := v.validate(s.Contains, elem, path.Index(i), depth+1)
			if sub.valid() {
				// Matching indices earn evaluated credit even when the
				// overall min/max check below fails.
				count++
				res.ctx.markItem(i)
			}
		}
		min := 1
		if s.MinContains != nil {
			min = *s.MinContains
		}
		tooFew := count < min
		tooMany := s.MaxContains != nil && count > *s.MaxContains
		if tooFew || tooMany {
			params := map[string]any{"min": min, "actual": count}
			if s.MaxContains != nil {
				params["max"] = *s.MaxContains
			}
			res.issues = AppendIssues(res.issues, issueAt(path, CodeContains, params))
		}
	}
	return res
}
