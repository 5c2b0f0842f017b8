package ptr

// ToString returns a pointer to the given string.
func ToString(s string) *string {
	return &s
}
