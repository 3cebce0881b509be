package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is wrapped by CheckPow2 when an alignment or chunk size is zero or not a power of two
var PowerOfTwoError error = errors.New("value must be a nonzero power of two")
