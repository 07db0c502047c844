package ids

import "github.com/segmentio/ksuid"

// New returns a K-sortable identifier; lexical order follows creation time.
func New() string {
	return ksuid.New().String()
}
