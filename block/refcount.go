package block

import "sync/atomic"

// refCounted is the shared ownership state embedded in vectors, blocks and
// pages. Containers normally live and die on a single driver goroutine; the
// counter is atomic so that the explicit cross-driver handoff (markShared)
// needs no further synchronization, at the cost of one uncontended atomic
// op per retain/release.
type refCounted struct {
	refs   atomic.Int32
	shared atomic.Bool
}

// init sets the initial reference owned by the creator.
func (rc *refCounted) init() {
	rc.refs.Store(1)
}

// incRef adds a reference. Panics if the container was already released.
func (rc *refCounted) incRef() {
	if rc.refs.Add(1) <= 1 {
		panic(ErrReleased)
	}
}

// decRef drops a reference and reports whether this call dropped the last
// one. The caller owning the last reference must run teardown exactly once.
func (rc *refCounted) decRef() bool {
	n := rc.refs.Add(-1)
	if n < 0 {
		panic(ErrReleased)
	}
	return n == 0
}

// ensureAlive panics if the container has been released.
func (rc *refCounted) ensureAlive() {
	if rc.refs.Load() <= 0 {
		panic(ErrReleased)
	}
}

// markShared records that the container may now be used by a different
// driver goroutine than the one that created it. The atomic store acts as
// the release fence for the handoff.
func (rc *refCounted) markShared() {
	rc.shared.Store(true)
}

// isShared reports whether the container was handed to another driver.
func (rc *refCounted) isShared() bool {
	return rc.shared.Load()
}

// hasReferences reports whether the container is still alive.
func (rc *refCounted) hasReferences() bool {
	return rc.refs.Load() > 0
}
