package protocol

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// UnknownVersionMismatchError reports a version table entry that names an
// implementation this build does not have. It is always a hard failure, never
// a fallback: silently running a different rule than the table designates
// would diverge from the rest of the network.
type UnknownVersionMismatchError struct {
	Method        string
	KnownVersions []FeatureVersion
	Received      FeatureVersion
}

func (e UnknownVersionMismatchError) Error() string {
	return fmt.Sprintf("unknown version mismatch on %s: received %d, known versions %v",
		e.Method, e.Received, e.KnownVersions)
}

// Dispatch selects and runs the implementation the version table designates
// for a method. Implementations are registered by version number; a version
// with no registered implementation yields an UnknownVersionMismatchError
// without calling anything.
func Dispatch[R any](
	method string,
	version FeatureVersion,
	impls map[FeatureVersion]func() (R, error),
) (R, error) {
	impl, ok := impls[version]
	if !ok {
		var zero R
		known := maps.Keys(impls)
		slices.Sort(known)
		return zero, UnknownVersionMismatchError{
			Method:        method,
			KnownVersions: known,
			Received:      version,
		}
	}
	return impl()
}

// IsUnknownVersionMismatch tells whether err is an unknown version mismatch.
func IsUnknownVersionMismatch(err error) bool {
	_, ok := err.(UnknownVersionMismatchError)
	return ok
}
