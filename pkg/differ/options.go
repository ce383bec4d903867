package differ

// Option is a functional option for configuring Differ.
type Option func(*differ)

// WithIgnoredFields sets fields to ignore during comparison. A field is a
// change path such as "props.title" and also hides every path beneath it.
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithDeepComparison enables/disables leaf-level comparison of nested
// props. When disabled a changed prop is reported as one change.
func WithDeepComparison(enabled bool) Option {
	return func(d *differ) {
		d.deepComparison = enabled
	}
}

// WithState enables/disables comparison of tree state.
func WithState(enabled bool) Option {
	return func(d *differ) {
		d.compareState = enabled
	}
}
