package domain

// ValidationErrors maps a field name to its violation messages.
// Returned as a normal value (never panicked) so the caller can render
// per-field messages inline.
type ValidationErrors map[string][]string

// Add appends a message for a field
func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

// HasErrors reports whether any field failed validation
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}
