package state

// Validated is implemented by records that know their assistant-specific
// required field set.
type Validated interface {
	// Missing returns the names of required fields that are still unset,
	// in a stable order. An empty slice means the record may be persisted.
	Missing() []string
}

// IsComplete reports whether every required field of v holds a value.
func IsComplete(v Validated) bool {
	return len(v.Missing()) == 0
}
