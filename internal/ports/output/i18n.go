package output

// T renders localized user-facing copy.
type T interface {
	T(locale, key string, data map[string]any) string
}
