package blockschema

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/reoring/blockschema/dyn"
	"github.com/reoring/blockschema/format"
	"github.com/reoring/blockschema/i18n"
)

// evalCtx tracks which object properties and array indices have been
// accounted for by some applicable keyword at the current schema-application
// level. Sibling results merge by set union; nesting into another object or
// array starts a fresh context.
type evalCtx struct {
	props map[string]struct{}
	items map[int]struct{}
}

func (c *evalCtx) markProp(name string) {
	if c.props == nil {
		c.props = map[string]struct{}{}
	}
	c.props[name] = struct{}{}
}

func (c *evalCtx) markItem(i int) {
	if c.items == nil {
		c.items = map[int]struct{}{}
	}
	c.items[i] = struct{}{}
}

func (c evalCtx) hasProp(name string) bool {
	_, ok := c.props[name]
	return ok
}

func (c evalCtx) hasItem(i int) bool {
	_, ok := c.items[i]
	return ok
}

func (c *evalCtx) merge(o evalCtx) {
	for k := range o.props {
		c.markProp(k)
	}
	for i := range o.items {
		c.markItem(i)
	}
}

// vres is a full validation result: accumulated issues plus the evaluation
// context discovered at this level.
type vres struct {
	issues Issues
	ctx    evalCtx
}

func (r vres) valid() bool { return len(r.issues) == 0 }

// absorb merges a sibling result: issues concatenate, contexts union.
func (r *vres) absorb(o vres) {
	r.issues = append(r.issues, o.issues...)
	r.ctx.merge(o.ctx)
}

type validator struct {
	reg  Registry
	root *Schema
	opt  ValidateOpt
}

// Validate walks the schema against the document and returns every violation
// found, or nil when the document conforms. The registry resolves $ref
// targets; pass RegistryFor(schema) when the schema is self-contained.
func Validate(schema *Schema, doc Json, reg Registry, opts ...ValidateOpt) Issues {
	v := &validator{reg: reg, root: schema}
	if len(opts) > 0 {
		v.opt = opts[0]
	}
	res := v.validate(schema, doc, dyn.Root, 0)
	if res.valid() {
		return nil
	}
	return res.issues
}

func issueAt(path dyn.Optic, code string, params map[string]any) Issue {
	return Issue{
		Path:    path.String(),
		Code:    code,
		Message: i18n.T(code, nil),
		Params:  params,
	}
}

func (v *validator) validate(s *Schema, j Json, path dyn.Optic, depth int) vres {
	var res vres
	if v.opt.MaxDepth > 0 && depth > v.opt.MaxDepth {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeConstraintViolation,
			map[string]any{"reason": "max depth exceeded", "maxDepth": v.opt.MaxDepth}))
		return res
	}
	if s == nil {
		return res
	}
	if s.IsBoolean() {
		if s.IsTrue() {
			return res
		}
		res.issues = AppendIssues(res.issues, issueAt(path, CodeConstraintViolation,
			map[string]any{"reason": "schema rejects all values"}))
		return res
	}

	// $ref resolves against the root schema; per 2020-12, sibling keywords
	// still apply, so there is no early return here.
	if s.Ref != nil {
		target, err := v.reg.Resolve(*s.Ref, v.root)
		if err != nil {
			if iss, ok := AsIssues(err); ok {
				for i := range iss {
					iss[i].Path = path.String()
				}
				res.issues = append(res.issues, iss...)
			}
		} else {
			res.absorb(v.validate(target, j, path, depth+1))
		}
	}
	if v.done(res) {
		return res
	}

	if s.Types != nil && !typesMatch(s.Types, j) {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeTypeMismatch, map[string]any{
			"expected": renderTypes(s.Types), "actual": jsonKindName(j),
		}))
	}
	if s.Enum != nil {
		found := false
		for _, allowed := range s.Enum {
			if j.Equal(allowed) {
				found = true
				break
			}
		}
		if !found {
			res.issues = AppendIssues(res.issues, issueAt(path, CodeNotInEnum, nil))
		}
	}
	if s.Const != nil && !j.Equal(s.Const) {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeConstMismatch, nil))
	}
	if v.done(res) {
		return res
	}

	// Type-specific keywords apply to whatever shape the value has,
	// independent of the type keyword.
	switch jv := j.(type) {
	case String:
		v.validateString(s, jv, path, &res)
	case Number:
		v.validateNumber(s, jv, path, &res)
	case Array:
		res.absorb(v.validateArray(s, jv, path, depth))
	case Object:
		res.absorb(v.validateObject(s, jv, path, depth))
	}
	if v.done(res) {
		return res
	}

	v.validateComposition(s, j, path, depth, &res)
	if v.done(res) {
		return res
	}
	v.validateConditional(s, j, path, depth, &res)

	// unevaluatedProperties/unevaluatedItems must run last so the evaluated
	// sets reflect every other applicable keyword.
	if obj, ok := j.(Object); ok && s.UnevaluatedProperties != nil {
		v.validateUnevaluatedProps(s.UnevaluatedProperties, obj, path, depth, &res)
	}
	if arr, ok := j.(Array); ok && s.UnevaluatedItems != nil {
		v.validateUnevaluatedItems(s.UnevaluatedItems, arr, path, depth, &res)
	}
	return res
}

func (v *validator) done(res vres) bool {
	return v.opt.FailFast && len(res.issues) > 0
}

func typesMatch(ts []TypeName, j Json) bool {
	for _, t := range ts {
		if typeMatches(t, j) {
			return true
		}
	}
	return false
}

func typeMatches(t TypeName, j Json) bool {
	switch t {
	case TypeNull:
		return j.Kind() == KindNull
	case TypeBoolean:
		return j.Kind() == KindBoolean
	case TypeString:
		return j.Kind() == KindString
	case TypeArray:
		return j.Kind() == KindArray
	case TypeObject:
		return j.Kind() == KindObject
	case TypeNumber:
		// Integer-typed JSON always satisfies number.
		return j.Kind() == KindNumber
	case TypeInteger:
		// A whole-valued number satisfies integer; the test is decimal-exact.
		n, ok := j.(Number)
		return ok && n.IsWhole()
	default:
		return false
	}
}

func (v *validator) validateString(s *Schema, str String, path dyn.Optic, res *vres) {
	// Length counts Unicode codepoints, not UTF-16 units or bytes.
	n := utf8.RuneCountInString(string(str))
	if s.MinLength != nil && n < *s.MinLength {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeLengthViolated,
			map[string]any{"min": *s.MinLength, "actual": n}))
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeLengthViolated,
			map[string]any{"max": *s.MaxLength, "actual": n}))
	}
	if s.Pattern != nil {
		re, err := regexp.Compile(*s.Pattern)
		if err != nil {
			iss := issueAt(path, CodeConstraintViolation,
				map[string]any{"reason": "invalid pattern", "pattern": *s.Pattern})
			iss.Cause = err
			res.issues = AppendIssues(res.issues, iss)
		} else if !re.MatchString(string(str)) {
			// Contains-a-match semantics: the pattern is not anchored.
			res.issues = AppendIssues(res.issues, issueAt(path, CodePatternMismatch,
				map[string]any{"pattern": *s.Pattern}))
		}
	}
	if s.Format != nil && !format.Validate(*s.Format, string(str)) {
		iss := issueAt(path, CodeFormatInvalid, map[string]any{"format": *s.Format})
		iss.Hint = *s.Format
		res.issues = AppendIssues(res.issues, iss)
	}
}

func (v *validator) validateNumber(s *Schema, n Number, path dyn.Optic, res *vres) {
	if s.Minimum != nil && n.Cmp(*s.Minimum) < 0 {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeMinimumViolated,
			map[string]any{"min": s.Minimum.String(), "actual": n.String(), "exclusive": false}))
	}
	if s.ExclusiveMinimum != nil && n.Cmp(*s.ExclusiveMinimum) <= 0 {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeMinimumViolated,
			map[string]any{"min": s.ExclusiveMinimum.String(), "actual": n.String(), "exclusive": true}))
	}
	if s.Maximum != nil && n.Cmp(*s.Maximum) > 0 {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeMaximumViolated,
			map[string]any{"max": s.Maximum.String(), "actual": n.String(), "exclusive": false}))
	}
	if s.ExclusiveMaximum != nil && n.Cmp(*s.ExclusiveMaximum) >= 0 {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeMaximumViolated,
			map[string]any{"max": s.ExclusiveMaximum.String(), "actual": n.String(), "exclusive": true}))
	}
	if s.MultipleOf != nil && !n.IsMultipleOf(*s.MultipleOf) {
		res.issues = AppendIssues(res.issues, issueAt(path, CodeMultipleOfViolated,
			map[string]any{"multipleOf": s.MultipleOf.String(), "actual": n.String()}))
	}
}

func (v *validator) validateComposition(s *Schema, j Json, path dyn.Optic, depth int, res *vres) {
	for _, sub := range s.AllOf {
		res.absorb(v.validate(sub, j, path, depth+1))
	}
	if len(s.AnyOf) > 0 {
		matched := false
		for _, sub := range s.AnyOf {
			r := v.validate(sub, j, path, depth+1)
			if r.valid() {
				matched = true
				// Every matching branch contributes evaluated credit.
				res.ctx.merge(r.ctx)
			}
		}
		if !matched {
			iss := issueAt(path, CodeCompositionFailed,
				map[string]any{"keyword": "anyOf", "branches": len(s.AnyOf)})
			iss.Message = "no anyOf branch matched"
			res.issues = AppendIssues(res.issues, iss)
		}
	}
	if len(s.OneOf) > 0 {
		matches := 0
		var matchedRes vres
		for _, sub := range s.OneOf {
			r := v.validate(sub, j, path, depth+1)
			if r.valid() {
				matches++
				matchedRes = r
			}
		}
		if matches == 1 {
			res.ctx.merge(matchedRes.ctx)
		} else {
			iss := issueAt(path, CodeCompositionFailed,
				map[string]any{"keyword": "oneOf", "matches": matches, "branches": len(s.OneOf)})
			iss.Message = fmt.Sprintf("oneOf matched %d branches, want exactly 1", matches)
			res.issues = AppendIssues(res.issues, iss)
		}
	}
	if s.Not != nil {
		r := v.validate(s.Not, j, path, depth+1)
		if r.valid() {
			iss := issueAt(path, CodeCompositionFailed, map[string]any{"keyword": "not"})
			iss.Message = "not schema matched"
			res.issues = AppendIssues(res.issues, iss)
		}
	}
}

func (v *validator) validateConditional(s *Schema, j Json, path dyn.Optic, depth int, res *vres) {
	if s.If == nil {
		return
	}
	r := v.validate(s.If, j, path, depth+1)
	if r.valid() {
		// The if schema only earns evaluated credit on the true branch.
		res.ctx.merge(r.ctx)
		if s.Then != nil {
			res.absorb(v.validate(s.Then, j, path, depth+1))
		}
	} else if s.Else != nil {
		res.absorb(v.validate(s.Else, j, path, depth+1))
	}
}

func (v *validator) validateUnevaluatedProps(schema *Schema, obj Object, path dyn.Optic, depth int, res *vres) {
	for _, name := range obj.Names() {
		if res.ctx.hasProp(name) {
			continue
		}
		if schema.IsFalse() {
			// Clearer diagnostic than a generic constraint violation.
			res.issues = AppendIssues(res.issues, issueAt(path.Field(name), CodeAdditionalProperty,
				map[string]any{"property": name, "keyword": "unevaluatedProperties"}))
		} else {
			val, _ := obj.Lookup(name)
			sub := v.validate(schema, val, path.Field(name), depth+1)
			res.issues = append(res.issues, sub.issues...)
		}
		res.ctx.markProp(name)
	}
}

func (v *validator) validateUnevaluatedItems(schema *Schema, arr Array, path dyn.Optic, depth int, res *vres) {
	for i, elem := range arr {
		if res.ctx.hasItem(i) {
			continue
		}
		if schema.IsFalse() {
			res.issues = AppendIssues(res.issues, issueAt(path.Index(i), CodeAdditionalProperty,
				map[string]any{"index": i, "keyword": "unevaluatedItems"}))
		} else {
			sub := v.validate(schema, elem, path.Index(i), depth+1)
			res.issues = append(res.issues, sub.issues...)
		}
		res.ctx.markItem(i)
	}
}
