package utils

// Ptr returns a pointer to the value.
func Ptr[T any](value T) *T {
	return &value
}
