package blockschema

import (
	"regexp"

	"github.com/reoring/blockschema/dyn"
)

// validateObject applies the object keywords. Member lookup is
// first-wins on duplicate names, consistent with Object.Lookup everywhere
// else in the package. The returned context carries the union of properties
// evaluated by properties, patternProperties, additionalProperties and
// dependentSchemas; propertyNames and dependentRequired validate names and
// presence only and do not mark evaluation.
func (v *validator) validateObject(s *Schema, obj Object, path dyn.Optic, depth int) vres {
	var res vres
	names := obj.Names()

	if s.MinProperties != nil && len(names) < *s.MinProperties {
		res.issues = AppendIssues(res.issues, issueAt(path, CodePropertiesCount,
			map[string]any{"min": *s.MinProperties, "actual": len(names)}))
	}
	if s.MaxProperties != nil && len(names) > *s.MaxProperties {
		res.issues = AppendIssues(res.issues, issueAt(path, CodePropertiesCount,
			map[string]any{"max": *s.MaxProperties, "actual": len(names)}))
	}

	for _, req := range s.Required {
		if !obj.Has(req) {
			res.issues = AppendIssues(res.issues, issueAt(path.Field(req), CodeRequiredMissing,
				map[string]any{"property": req}))
		}
	}

	// Declared properties absent from the object are silently skipped;
	// required is the only presence check.
	for _, p := range s.Properties {
		val, ok := obj.Lookup(p.Name)
		if !ok {
			continue
		}
		sub := v.validate(p.Schema, val, path.Field(p.Name), depth+1)
		res.issues = append(res.issues, sub.issues...)
		res.ctx.markProp(p.Name)
	}

	for _, pp := range s.PatternProperties {
		re, err := regexp.Compile(pp.Name)
		if err != nil {
			iss := issueAt(path, CodeConstraintViolation,
				map[string]any{"reason": "invalid patternProperties pattern", "pattern": pp.Name})
			iss.Cause = err
			res.issues = AppendIssues(res.issues, iss)
			continue
		}
		for _, name := range names {
			if !re.MatchString(name) {
				continue
			}
			val, _ := obj.Lookup(name)
			sub := v.validate(pp.Schema, val, path.Field(name), depth+1)
			res.issues = append(res.issues, sub.issues...)
			res.ctx.markProp(name)
		}
	}

	if s.AdditionalProperties != nil {
		for _, name := range names {
			if res.ctx.hasProp(name) {
				continue
			}
			if s.AdditionalProperties.IsFalse() {
				res.issues = AppendIssues(res.issues, issueAt(path.Field(name), CodeAdditionalProperty,
					map[string]any{"property": name}))
			} else {
				val, _ := obj.Lookup(name)
				sub := v.validate(s.AdditionalProperties, val, path.Field(name), depth+1)
				res.issues = append(res.issues, sub.issues...)
			}
			// Evaluation marks attempted coverage, not successful coverage.
			res.ctx.markProp(name)
		}
	}

	if s.PropertyNames != nil {
		for _, name := range names {
			sub := v.validate(s.PropertyNames, String(name), path.Field(name), depth+1)
			if !sub.valid() {
				iss := issueAt(path.Field(name), CodePropertyNameInvalid,
					map[string]any{"property": name})
				iss.Hint = sub.issues[0].Message
				res.issues = AppendIssues(res.issues, iss)
			}
		}
	}

	for _, dep := range s.DependentRequired {
		if !obj.Has(dep.Name) {
			continue
		}
		for _, f := range dep.Fields {
			if !obj.Has(f) {
				iss := issueAt(path.Field(f), CodeRequiredMissing,
					map[string]any{"property": f, "requiredBy": dep.Name})
				iss.Hint = "required by presence of " + dep.Name
				res.issues = AppendIssues(res.issues, iss)
			}
		}
	}

	// dependentSchemas validate the whole object at the same path.
	for _, ds := range s.DependentSchemas {
		if !obj.Has(ds.Name) {
			continue
		}
		res.absorb(v.validate(ds.Schema, obj, path, depth+1))
	}

	return res
}
