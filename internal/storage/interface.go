package storage

// BlobStore is the durable key/value surface used by the persistent dedup
// tracker.
type BlobStore interface {
	Store(name string, data []byte) error
	Retrieve(name string) ([]byte, error)
}
