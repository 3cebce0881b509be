package memutils

// Validatable is implemented by allocator structures that can check their own bookkeeping. DebugValidate
// accepts any of them.
type Validatable interface {
	Validate() error
}
