package recstream

const (
	// defaultBufferSize is how much the incremental decoders ask the source
	// for per refill.
	defaultBufferSize = 8192

	// defaultMinChunkSize is the writer's flush threshold.
	defaultMinChunkSize = 1 << 20 // 1 MiB

	// defaultVersion is the format tag recorded in chunk markers.
	defaultVersion byte = 1

	// maxChunkPrealloc caps how much a single unverified chunk length may
	// pre-allocate; longer payloads grow as bytes actually arrive.
	maxChunkPrealloc = 1 << 26 // 64 MiB
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
