package migration

import (
	"github.com/reoring/blockschema/dyn"
)

// Wire op names.
const (
	OpAddField          = "add_field"
	OpDropField         = "drop_field"
	OpRename            = "rename"
	OpTransformValue    = "transform_value"
	OpMandate           = "mandate"
	OpOptionalize       = "optionalize"
	OpRenameCase        = "rename_case"
	OpTransformElements = "transform_elements"
	OpTransformKeys     = "transform_keys"
	OpTransformValues   = "transform_values"
	OpTransformCase     = "transform_case"
	OpJoin              = "join"
	OpSplit             = "split"
	OpChangeType        = "change_type"
)

// Action is one atomic structural edit targeting a path in a dynamic value.
// Reverse returns the semantically inverse action; for transforms whose
// inverse expression was never supplied this is a nominal inverse (reversal
// always succeeds structurally, round-tripping is not guaranteed for lossy
// transforms).
type Action interface {
	Op() string
	Location() dyn.Optic
	Reverse() Action
}

// AddField appends a named field to the record at At, with the evaluated
// default as its value. Fails when the field already exists.
type AddField struct {
	At      dyn.Optic
	Name    string
	Default Expr
}

func (a AddField) Op() string            { return OpAddField }
func (a AddField) Location() dyn.Optic   { return a.At }
func (a AddField) Reverse() Action       { return DropField{At: a.At, Name: a.Name, Default: a.Default} }

// DropField removes the named field from the record at At. Default is unused
// in the forward direction; it exists so Reverse can reconstruct an AddField
// with that default.
type DropField struct {
	At      dyn.Optic
	Name    string
	Default Expr
}

func (a DropField) Op() string          { return OpDropField }
func (a DropField) Location() dyn.Optic { return a.At }
func (a DropField) Reverse() Action     { return AddField{At: a.At, Name: a.Name, Default: a.Default} }

// Rename changes a field's name in the record at At, preserving its value
// and relative position. Fails when From is absent or To already exists.
type Rename struct {
	At   dyn.Optic
	From string
	To   string
}

func (a Rename) Op() string          { return OpRename }
func (a Rename) Location() dyn.Optic { return a.At }
func (a Rename) Reverse() Action     { return Rename{At: a.At, From: a.To, To: a.From} }

// TransformValue replaces the value at At with Forward applied to it.
// Backward, when supplied, becomes the forward expression of the reverse.
type TransformValue struct {
	At       dyn.Optic
	Forward  Expr
	Backward Expr
}

func (a TransformValue) Op() string          { return OpTransformValue }
func (a TransformValue) Location() dyn.Optic { return a.At }
func (a TransformValue) Reverse() Action {
	return TransformValue{At: a.At, Forward: a.Backward, Backward: a.Forward}
}

// Mandate converts an optional-shaped value at At to its unwrapped required
// form: Some payloads unwrap, None/Null substitute the evaluated default.
type Mandate struct {
	At      dyn.Optic
	Default Expr
}

func (a Mandate) Op() string          { return OpMandate }
func (a Mandate) Location() dyn.Optic { return a.At }
func (a Mandate) Reverse() Action     { return Optionalize{At: a.At, Default: a.Default} }

// Optionalize wraps the required value at At so that a reader expecting an
// optional sees it present. Default is unused forward; the reverse Mandate
// needs it for the now-possible absent case.
type Optionalize struct {
	At      dyn.Optic
	Default Expr
}

func (a Optionalize) Op() string          { return OpOptionalize }
func (a Optionalize) Location() dyn.Optic { return a.At }
func (a Optionalize) Reverse() Action     { return Mandate{At: a.At, Default: a.Default} }

// RenameCase renames a variant's case at At when it equals From; other cases
// pass through untouched.
type RenameCase struct {
	At   dyn.Optic
	From string
	To   string
}

func (a RenameCase) Op() string          { return OpRenameCase }
func (a RenameCase) Location() dyn.Optic { return a.At }
func (a RenameCase) Reverse() Action     { return RenameCase{At: a.At, From: a.To, To: a.From} }

// TransformElements applies Forward to every element of the sequence at At.
type TransformElements struct {
	At       dyn.Optic
	Forward  Expr
	Backward Expr
}

func (a TransformElements) Op() string          { return OpTransformElements }
func (a TransformElements) Location() dyn.Optic { return a.At }
func (a TransformElements) Reverse() Action {
	return TransformElements{At: a.At, Forward: a.Backward, Backward: a.Forward}
}

// TransformKeys applies Forward to every key of the map at At.
type TransformKeys struct {
	At       dyn.Optic
	Forward  Expr
	Backward Expr
}

func (a TransformKeys) Op() string          { return OpTransformKeys }
func (a TransformKeys) Location() dyn.Optic { return a.At }
func (a TransformKeys) Reverse() Action {
	return TransformKeys{At: a.At, Forward: a.Backward, Backward: a.Forward}
}

// TransformValues applies Forward to every value of the map at At.
type TransformValues struct {
	At       dyn.Optic
	Forward  Expr
	Backward Expr
}

func (a TransformValues) Op() string          { return OpTransformValues }
func (a TransformValues) Location() dyn.Optic { return a.At }
func (a TransformValues) Reverse() Action {
	return TransformValues{At: a.At, Forward: a.Backward, Backward: a.Forward}
}

// TransformCase applies a nested sub-migration to the payload of the variant
// at At.
type TransformCase struct {
	At      dyn.Optic
	Actions Migration
}

func (a TransformCase) Op() string          { return OpTransformCase }
func (a TransformCase) Location() dyn.Optic { return a.At }
func (a TransformCase) Reverse() Action {
	return TransformCase{At: a.At, Actions: a.Actions.Reverse()}
}

// Join gathers the values at Sources, removes them, and inserts the combined
// result at At. Splitter, when supplied, powers the reverse Split.
type Join struct {
	At       dyn.Optic
	Sources  []dyn.Optic
	Combiner JoinExpr
	Splitter SplitExpr
}

func (a Join) Op() string          { return OpJoin }
func (a Join) Location() dyn.Optic { return a.At }
func (a Join) Reverse() Action {
	return Split{At: a.At, Targets: a.Sources, Splitter: a.Splitter, Combiner: a.Combiner}
}

// Split removes the value at At, splits it, and inserts each part at the
// corresponding target. Combiner, when supplied, powers the reverse Join.
type Split struct {
	At       dyn.Optic
	Targets  []dyn.Optic
	Splitter SplitExpr
	Combiner JoinExpr
}

func (a Split) Op() string          { return OpSplit }
func (a Split) Location() dyn.Optic { return a.At }
func (a Split) Reverse() Action {
	return Join{At: a.At, Sources: a.Targets, Combiner: a.Combiner, Splitter: a.Splitter}
}

// ChangeType replaces the value at At with the converter's result, bypassing
// shape compatibility checks. Explicitly schema-breaking; pair with manual
// validation.
type ChangeType struct {
	At          dyn.Optic
	Convert     Expr
	ConvertBack Expr
}

func (a ChangeType) Op() string          { return OpChangeType }
func (a ChangeType) Location() dyn.Optic { return a.At }
func (a ChangeType) Reverse() Action {
	return ChangeType{At: a.At, Convert: a.ConvertBack, ConvertBack: a.Convert}
}

// Migration is an ordered action sequence; composition is concatenation.
type Migration []Action

// Then appends another migration.
func (m Migration) Then(next Migration) Migration {
	out := make(Migration, 0, len(m)+len(next))
	out = append(out, m...)
	return append(out, next...)
}

// Reverse maps each action to its inverse and reverses the order. The result
// is a best-effort inverse: applying a migration and then its reverse is an
// identity only when every action has a lossless inverse.
func (m Migration) Reverse() Migration {
	out := make(Migration, 0, len(m))
	for i := len(m) - 1; i >= 0; i-- {
		out = append(out, m[i].Reverse())
	}
	return out
}
