package port

// KeyValueStore is the namespaced persistence collaborator. Values are JSON
// documents; reads and writes are synchronous and whole-value.
type KeyValueStore interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	Remove(key string) error
}
