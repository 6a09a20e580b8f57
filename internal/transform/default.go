package transform

// Default returns a fresh Registry populated with every named function in
// the default table: arithmetic, comparison, boolean, collection, and
// sentinel. Callers may Register additional or replacement functions on
// the returned Registry; the process-wide table is otherwise read-only
// after startup.
func Default() *Registry {
	r := NewRegistry()
	registerArithmetic(r)
	registerComparison(r)
	registerBoolean(r)
	registerCollection(r)
	registerSentinel(r)
	return r
}
