package blockschema

// ValidateOpt bundles validation options. The zero value is the reference
// behavior: unbounded recursion, full error accumulation.
type ValidateOpt struct {
	// MaxDepth bounds schema/instance recursion for documents from untrusted
	// sources; 0 disables the guard. Exceeding it reports a
	// constraint_violation issue instead of exhausting the stack.
	MaxDepth int
	// FailFast stops after the first reported issue.
	FailFast bool
}
