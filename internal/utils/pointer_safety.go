package utils

// Ptr returns a pointer to v. Handy for the optional (pointer) fields on API
// request structs.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value for a nil pointer.
func Value[T any](p *T) T {
	if p == nil {
		return *new(T)
	}
	return *p
}
