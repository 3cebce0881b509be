package descriptor

const (
	DefaultSetsPerPool        int = 1000
	DefaultDescriptorsPerKind int = 100
)

// Options contains optional settings for a PoolManager
type Options struct {
	// SetsPerPool is the maximum number of descriptor sets allocated from a single native pool
	SetsPerPool int
	// DescriptorsPerKind is the number of descriptors of each resource kind in a single native pool
	DescriptorsPerKind int
	// ExternallySynchronized disables the PoolManager's internal mutex
	ExternallySynchronized bool
}
