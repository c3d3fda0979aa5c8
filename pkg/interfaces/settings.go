package interfaces

// SettingsStore is the external key-value configuration the pipeline reads
// the engine path and user defaults from. Writes are last-writer-wins; the
// store being unreachable degrades reads to the supplied default instead of
// failing a run.
type SettingsStore interface {
	// Get returns the stored value for key, or def when the key is absent
	// or the store is unavailable.
	Get(key, def string) string

	// Set stores value under key and persists it.
	Set(key, value string) error

	// Keys lists the keys the store accepts.
	Keys() []string
}
