package cache

// RequestCacher keeps a capped, newest-first list of entries per key.
type RequestCacher interface {
	Write(key string, value []byte) error
	Read(key string) ([]string, error)
}
