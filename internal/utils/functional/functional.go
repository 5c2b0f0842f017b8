package functional

// Map converts a slice element-wise. Repositories and response builders use
// it to project schema rows into domain values and domain values into DTOs.
func Map[T any, U any](slice []T, fn func(T) U) []U {
	out := make([]U, len(slice))
	for i, item := range slice {
		out[i] = fn(item)
	}
	return out
}
