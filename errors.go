package blockschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch        = "type_mismatch"
	CodeNotInEnum           = "not_in_enum"
	CodeConstMismatch       = "const_mismatch"
	CodeLengthViolated      = "length_violated"
	CodePatternMismatch     = "pattern_mismatch"
	CodeFormatInvalid       = "format_invalid"
	CodeMinimumViolated     = "minimum_violated"
	CodeMaximumViolated     = "maximum_violated"
	CodeMultipleOfViolated  = "multiple_of_violated"
	CodeItemsCount          = "items_count_violated"
	CodeUniqueItems         = "unique_items_violated"
	CodeContains            = "contains_not_satisfied"
	CodePropertiesCount     = "properties_count_violated"
	CodeRequiredMissing     = "required_missing"
	CodeAdditionalProperty  = "additional_property"
	CodePropertyNameInvalid = "property_name_invalid"
	CodeCompositionFailed   = "composition_failed"
	CodeConstraintViolation = "constraint_violation"
	CodeRefNotResolved      = "ref_not_resolved"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Optic-rendered location (for example: .items[2].price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at .items[2]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
