package utils

// Value dereferences v, returning the zero value when v is nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v. Handy for optional wire fields and literals.
func Ptr[T any](v T) *T {
	return &v
}
