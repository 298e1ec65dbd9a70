package badger

// Key prefixes for different data types
const (
	counterPrefix = "cnt:"
	deletedPrefix = "del:"
)

// makeCounterKey generates the key holding the launch counter of an item.
// Format: cnt:<item id>
func makeCounterKey(id string) []byte {
	return []byte(counterPrefix + id)
}

// makeDeletedKey generates the key marking an item as deleted.
// Format: del:<item id>
func makeDeletedKey(id string) []byte {
	return []byte(deletedPrefix + id)
}

// idFromKey strips prefix from a key. Item ids may contain ':' and '/', so
// only the fixed-size prefix is removed.
func idFromKey(key []byte, prefix string) string {
	if len(key) < len(prefix) {
		return ""
	}
	return string(key[len(prefix):])
}
