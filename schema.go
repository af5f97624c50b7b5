package blockschema

// TypeName is one of the seven JSON Schema primitive type tags.
type TypeName string

const (
	TypeNull    TypeName = "null"
	TypeBoolean TypeName = "boolean"
	TypeInteger TypeName = "integer"
	TypeNumber  TypeName = "number"
	TypeString  TypeName = "string"
	TypeArray   TypeName = "array"
	TypeObject  TypeName = "object"
)

// Prop is one name/schema pair, kept in document order so validation output
// is deterministic.
type Prop struct {
	Name   string
	Schema *Schema
}

// Dependent is one dependentRequired entry: when Name is present, Fields must
// also be present.
type Dependent struct {
	Name   string
	Fields []string
}

// Schema is a JSON Schema 2020-12 node: either a boolean schema (trivial
// accept/reject) or a bag of optional keyword fields. The zero value is the
// empty object schema, which accepts everything.
type Schema struct {
	boolean *bool // non-nil makes this a boolean schema; keyword fields are ignored

	// Core
	Ref   *string
	Types []TypeName // nil = unset; one or more tags (union)
	Enum  []Json     // nil = unset; empty slice rejects everything
	Const Json       // nil = unset

	// Number
	Minimum          *Number
	Maximum          *Number
	ExclusiveMinimum *Number
	ExclusiveMaximum *Number
	MultipleOf       *Number

	// String
	MinLength *int
	MaxLength *int
	Pattern   *string
	Format    *string

	// Array
	Items            *Schema
	PrefixItems      []*Schema
	Contains         *Schema
	MinContains      *int
	MaxContains      *int
	MinItems         *int
	MaxItems         *int
	UniqueItems      bool
	UnevaluatedItems *Schema

	// Object
	Properties            []Prop
	PatternProperties     []Prop
	AdditionalProperties  *Schema
	Required              []string
	MinProperties         *int
	MaxProperties         *int
	DependentRequired     []Dependent
	DependentSchemas      []Prop
	PropertyNames         *Schema
	UnevaluatedProperties *Schema

	// Composition
	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema

	// Conditional
	If   *Schema
	Then *Schema
	Else *Schema

	// Reference targets
	ID     *string
	Anchor *string
	Defs   []Prop
}

// TrueSchema returns the boolean schema that accepts every instance.
func TrueSchema() *Schema {
	t := true
	return &Schema{boolean: &t}
}

// FalseSchema returns the boolean schema that rejects every instance.
func FalseSchema() *Schema {
	f := false
	return &Schema{boolean: &f}
}

// IsTrue reports whether s is the boolean schema true.
func (s *Schema) IsTrue() bool { return s.boolean != nil && *s.boolean }

// IsFalse reports whether s is the boolean schema false.
func (s *Schema) IsFalse() bool { return s.boolean != nil && !*s.boolean }

// IsBoolean reports whether s is a boolean schema rather than an object.
func (s *Schema) IsBoolean() bool { return s.boolean != nil }

// DefsLookup returns the $defs entry with the given name.
func (s *Schema) DefsLookup(name string) (*Schema, bool) {
	for _, p := range s.Defs {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// SchemaFromJSON converts a parsed schema document into a Schema node.
// Booleans become boolean schemas. Keyword values with an unexpected shape
// are ignored rather than rejected: keywords are advisory and a validator
// must stay total over documents it did not author.
func SchemaFromJSON(doc Json) *Schema {
	switch v := doc.(type) {
	case Bool:
		if bool(v) {
			return TrueSchema()
		}
		return FalseSchema()
	case Object:
		return schemaFromObject(v)
	default:
		// Anything else carries no constraints.
		return &Schema{}
	}
}

func schemaFromObject(obj Object) *Schema {
	s := &Schema{}
	seen := make(map[string]struct{}, len(obj))
	for _, mem := range obj {
		// First-wins: duplicate keywords after the first are skipped, matching
		// Object.Lookup.
		if _, dup := seen[mem.Name]; dup {
			continue
		}
		seen[mem.Name] = struct{}{}
		switch mem.Name {
		case "$ref":
			s.Ref = asStringPtr(mem.Value)
		case "$id":
			s.ID = asStringPtr(mem.Value)
		case "$anchor":
			s.Anchor = asStringPtr(mem.Value)
		case "$defs", "definitions":
			if o, ok := mem.Value.(Object); ok {
				for _, d := range o {
					s.Defs = append(s.Defs, Prop{Name: d.Name, Schema: SchemaFromJSON(d.Value)})
				}
			}
		case "type":
			switch t := mem.Value.(type) {
			case String:
				s.Types = []TypeName{TypeName(t)}
			case Array:
				for _, e := range t {
					if ts, ok := e.(String); ok {
						s.Types = append(s.Types, TypeName(ts))
					}
				}
			}
		case "enum":
			if a, ok := mem.Value.(Array); ok {
				s.Enum = append([]Json{}, a...)
			}
		case "const":
			s.Const = mem.Value
		case "minimum":
			s.Minimum = asNumberPtr(mem.Value)
		case "maximum":
			s.Maximum = asNumberPtr(mem.Value)
		case "exclusiveMinimum":
			s.ExclusiveMinimum = asNumberPtr(mem.Value)
		case "exclusiveMaximum":
			s.ExclusiveMaximum = asNumberPtr(mem.Value)
		case "multipleOf":
			s.MultipleOf = asNumberPtr(mem.Value)
		case "minLength":
			s.MinLength = asIntPtr(mem.Value)
		case "maxLength":
			s.MaxLength = asIntPtr(mem.Value)
		case "pattern":
			s.Pattern = asStringPtr(mem.Value)
		case "format":
			s.Format = asStringPtr(mem.Value)
		case "items":
			s.Items = SchemaFromJSON(mem.Value)
		case "prefixItems":
			if a, ok := mem.Value.(Array); ok {
				for _, e := range a {
					s.PrefixItems = append(s.PrefixItems, SchemaFromJSON(e))
				}
			}
		case "contains":
			s.Contains = SchemaFromJSON(mem.Value)
		case "minContains":
			s.MinContains = asIntPtr(mem.Value)
		case "maxContains":
			s.MaxContains = asIntPtr(mem.Value)
		case "minItems":
			s.MinItems = asIntPtr(mem.Value)
		case "maxItems":
			s.MaxItems = asIntPtr(mem.Value)
		case "uniqueItems":
			if b, ok := mem.Value.(Bool); ok {
				s.UniqueItems = bool(b)
			}
		case "unevaluatedItems":
			s.UnevaluatedItems = SchemaFromJSON(mem.Value)
		case "properties":
			s.Properties = asProps(mem.Value)
		case "patternProperties":
			s.PatternProperties = asProps(mem.Value)
		case "additionalProperties":
			s.AdditionalProperties = SchemaFromJSON(mem.Value)
		case "required":
			if a, ok := mem.Value.(Array); ok {
				for _, e := range a {
					if name, ok := e.(String); ok {
						s.Required = append(s.Required, string(name))
					}
				}
			}
		case "minProperties":
			s.MinProperties = asIntPtr(mem.Value)
		case "maxProperties":
			s.MaxProperties = asIntPtr(mem.Value)
		case "dependentRequired":
			if o, ok := mem.Value.(Object); ok {
				for _, d := range o {
					dep := Dependent{Name: d.Name}
					if a, ok := d.Value.(Array); ok {
						for _, e := range a {
							if name, ok := e.(String); ok {
								dep.Fields = append(dep.Fields, string(name))
							}
						}
					}
					s.DependentRequired = append(s.DependentRequired, dep)
				}
			}
		case "dependentSchemas":
			s.DependentSchemas = asProps(mem.Value)
		case "propertyNames":
			s.PropertyNames = SchemaFromJSON(mem.Value)
		case "unevaluatedProperties":
			s.UnevaluatedProperties = SchemaFromJSON(mem.Value)
		case "allOf":
			s.AllOf = asSchemas(mem.Value)
		case "anyOf":
			s.AnyOf = asSchemas(mem.Value)
		case "oneOf":
			s.OneOf = asSchemas(mem.Value)
		case "not":
			s.Not = SchemaFromJSON(mem.Value)
		case "if":
			s.If = SchemaFromJSON(mem.Value)
		case "then":
			s.Then = SchemaFromJSON(mem.Value)
		case "else":
			s.Else = SchemaFromJSON(mem.Value)
		}
	}
	return s
}

func asStringPtr(j Json) *string {
	if s, ok := j.(String); ok {
		v := string(s)
		return &v
	}
	return nil
}

func asNumberPtr(j Json) *Number {
	if n, ok := j.(Number); ok {
		return &n
	}
	return nil
}

func asIntPtr(j Json) *int {
	n, ok := j.(Number)
	if !ok || !n.IsWhole() {
		return nil
	}
	i64, err := n.Decimal().Int64()
	if err != nil {
		return nil
	}
	i := int(i64)
	return &i
}

func asProps(j Json) []Prop {
	o, ok := j.(Object)
	if !ok {
		return nil
	}
	var out []Prop
	for _, mem := range o {
		out = append(out, Prop{Name: mem.Name, Schema: SchemaFromJSON(mem.Value)})
	}
	return out
}

func asSchemas(j Json) []*Schema {
	a, ok := j.(Array)
	if !ok {
		return nil
	}
	var out []*Schema
	for _, e := range a {
		out = append(out, SchemaFromJSON(e))
	}
	return out
}
