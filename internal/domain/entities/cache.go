package entities

// CacheStats reports the counters of a rendered-fragment cache
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`

	// Size is the number of cached fragments
	Size int `json:"size"`

	// MaxSize is the byte budget of the cache
	MaxSize int `json:"max_size"`

	// HitRate is hits over lookups, between 0 and 1
	HitRate float64 `json:"hit_rate"`
}
