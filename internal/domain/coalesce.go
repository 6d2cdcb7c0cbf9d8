package domain

// Coalesce returns the first non-empty value, or the zero value.
func Coalesce[T ~string](vals ...T) T {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
