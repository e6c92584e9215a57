package i2s

import "sync"

// portRegistry tracks which physical ports are claimed by a live I2S
// instance. The vendor hardware has no claim notion of its own, so this
// table is the only guard against two instances driving the same unit.
type portRegistry struct {
	mx   sync.Mutex
	used [PortMax]bool
}

// acquire flips a free port to claimed. It returns false without side
// effect when the port is already claimed.
func (r *portRegistry) acquire(p Port) bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	if r.used[p] {
		return false
	}
	r.used[p] = true
	return true
}

// release marks a port free. Releasing a free port is a no-op.
func (r *portRegistry) release(p Port) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.used[p] = false
}

func (r *portRegistry) inUse(p Port) bool {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.used[p]
}

var ports portRegistry

// PortInUse reports whether a physical port is currently claimed.
func PortInUse(p Port) bool {
	if !p.valid() {
		return false
	}
	return ports.inUse(p)
}
