package memory

const (
	// DefaultMappedChunkSize is the size of persistently mapped chunks when none is provided via Options.
	// Mapped memory is scarcer than device-local memory, so its chunks are smaller.
	DefaultMappedChunkSize int = 64 * 1024 * 1024
	// DefaultUnmappedChunkSize is the size of unmapped chunks when none is provided via Options
	DefaultUnmappedChunkSize int = 256 * 1024 * 1024
)

// Options contains optional settings for a Manager
type Options struct {
	// MappedChunkSize is the size of each native allocation made for persistently mapped blocks
	MappedChunkSize int
	// UnmappedChunkSize is the size of each native allocation made for unmapped blocks
	UnmappedChunkSize int
	// ExternallySynchronized disables the Manager's internal mutex. The consumer must guarantee
	// the Manager is used from only one goroutine at a time.
	ExternallySynchronized bool
}
