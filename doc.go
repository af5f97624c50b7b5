package blockschema

// Package blockschema provides:
//
// - A JSON Schema 2020-12 structural validator over an immutable Json AST,
//   including unevaluatedProperties/unevaluatedItems via evaluation tracking
// - A stable error model via Issues (optic path, code, message)
// - A copy-on-write Registry for $ref resolution ($id/$anchor/$defs)
// - Format checkers under format/ and a dynamic-value migration interpreter
//   under migration/, both operating on the dyn value model
//
// Design policy:
// - Keep the data model and public entry points in the root package; place
//   cohesive leaf concerns under format/, dyn/ and migration/.
// - Everything is an immutable value; registries extend copy-on-write, so
//   instances are safe to share across concurrent validations.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := blockschema.FromJSONBytes(data)
//	schemaDoc, err := blockschema.FromJSONBytes(schemaBytes)
//	s := blockschema.SchemaFromJSON(schemaDoc)
//	iss := blockschema.Validate(s, doc, blockschema.RegistryFor(s))
//	if len(iss) > 0 { ... }
