// Package sync keeps the local and remote copies of the document
// coherent: a context carrying the dirty flags and session markers, a
// remote client for the collection API, a two-cadence flush scheduler,
// and the login-time conflict resolver.
package sync

import (
	"sync"
	"time"
)

// Context carries the per-session sync state: two independent dirty
// flags with generation counters, the last successful remote sync time,
// and the per-account session markers. One Context exists per
// authenticated session and is torn down on logout.
type Context struct {
	mu sync.Mutex

	localDirty  bool
	remoteDirty bool
	// Generations let a flush clear a flag only if no mutation arrived
	// after its snapshot was taken: a slow write completing late must
	// not mask a newer change.
	localGen  uint64
	remoteGen uint64

	lastSyncedAt time.Time

	// loaded records, per account, that the remote set was already
	// fetched and reconciled this session.
	loaded       map[string]bool
	resolving    bool
	unauthorized bool
}

// NewContext returns a fresh session context with clean flags.
func NewContext() *Context {
	return &Context{loaded: make(map[string]bool)}
}

// MarkDirty records an in-memory mutation. Both stores become stale at
// once; they are tracked independently only so a successful write to
// one does not mask the need to still write to the other.
func (c *Context) MarkDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.localDirty = true
	c.remoteDirty = true
	c.localGen++
	c.remoteGen++
}

// MarkLocalDirty flags only the on-device copy as stale, e.g. after
// adopting the remote set wholesale.
func (c *Context) MarkLocalDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.localDirty = true
	c.localGen++
}

// MarkRemoteDirty flags only the remote copy as stale, e.g. after the
// keep-local conflict outcome.
func (c *Context) MarkRemoteDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remoteDirty = true
	c.remoteGen++
}

// LocalDirty reports whether the on-device copy is behind memory.
func (c *Context) LocalDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localDirty
}

// RemoteDirty reports whether the remote copy is behind memory.
func (c *Context) RemoteDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteDirty
}

// LocalGen returns the local mutation generation to capture alongside a
// snapshot.
func (c *Context) LocalGen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localGen
}

// RemoteGen returns the remote mutation generation to capture alongside
// a snapshot.
func (c *Context) RemoteGen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteGen
}

// AckLocal clears the local flag if no mutation arrived since gen was
// captured. Returns false when the flag stays set.
func (c *Context) AckLocal(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.localGen != gen {
		return false
	}
	c.localDirty = false
	return true
}

// AckRemote clears the remote flag if no mutation arrived since gen was
// captured, stamping the last-synced time on success.
func (c *Context) AckRemote(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSyncedAt = time.Now()
	if c.remoteGen != gen {
		return false
	}
	c.remoteDirty = false
	return true
}

// LastSyncedAt returns the time of the last successful remote flush, or
// the zero time if none happened this session.
func (c *Context) LastSyncedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSyncedAt
}

// RemoteLoaded reports whether the account's remote set was already
// fetched this session.
func (c *Context) RemoteLoaded(accountID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded[accountID]
}

// MarkRemoteLoaded suppresses further remote loads for the account this
// session.
func (c *Context) MarkRemoteLoaded(accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded[accountID] = true
}

// BeginResolve claims the single conflict-resolution slot. Returns
// false when a resolution is already in flight.
func (c *Context) BeginResolve() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolving {
		return false
	}
	c.resolving = true
	return true
}

// EndResolve releases the conflict-resolution slot.
func (c *Context) EndResolve() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolving = false
}

// SetUnauthorized latches a rejected credential. Terminal for the
// session: remote flushing stops until a new Context is created.
func (c *Context) SetUnauthorized() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unauthorized = true
}

// Unauthorized reports whether the session credential was rejected.
func (c *Context) Unauthorized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unauthorized
}
