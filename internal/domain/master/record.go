package master

// Record is an untyped master-data row, used by generic screens that work
// across every entity through the registry.
type Record map[string]any

// GetID returns the backend id, accepting "id" or "_id"
func (r Record) GetID() string {
	return firstString(r, []string{"id", "_id"})
}

// String returns the stringified value of key, or ""
func (r Record) String(key string) string {
	return firstString(r, []string{key})
}

// Clone returns a shallow copy
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Identifiable is implemented by every master entity
type Identifiable interface {
	GetID() string
}
