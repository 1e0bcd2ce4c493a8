package cache

import "github.com/puzpuzpuz/xsync/v3"

// MemoryRequestCacher is the RequestCacher used when no Redis is configured.
type MemoryRequestCacher struct {
	MaxNumber int
	entries   *xsync.MapOf[string, []string]
}

func CreateMemoryCache(maxNumber int) *MemoryRequestCacher {
	return &MemoryRequestCacher{
		MaxNumber: maxNumber,
		entries:   xsync.NewMapOf[string, []string](),
	}
}

func (library *MemoryRequestCacher) Write(key string, value []byte) error {
	library.entries.Compute(key, func(old []string, _ bool) ([]string, bool) {
		size := min(len(old)+1, library.MaxNumber)
		updated := make([]string, 0, size)
		updated = append(updated, string(value))
		updated = append(updated, old...)
		return updated[:size], false
	})
	return nil
}

func (library *MemoryRequestCacher) Read(key string) ([]string, error) {
	values, _ := library.entries.Load(key)
	return append([]string(nil), values...), nil
}
