package output

import "context"

// Locker serializes work on a key across the process (or the fleet).
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
