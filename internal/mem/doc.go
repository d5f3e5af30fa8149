// Package mem provides memory sizing and allocation utilities for the
// columnar layer.
//
// Sizing uses fixed shallow-size constants rather than reflection so that
// footprint estimates are cheap enough to compute on every allocation. The
// estimates feed the execution-time memory budget; they do not have to match
// the runtime's actual heap usage byte for byte, but they must be stable and
// monotonic in the amount of data held.
package mem
