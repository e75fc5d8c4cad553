package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/avdeyev/SettlementKeeper/internal/client/storage"
	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// RemoteStore is the slice of the remote API the scheduler needs.
type RemoteStore interface {
	Put(ctx context.Context, accountID, settlementID string, s models.Settlement) error
	Delete(ctx context.Context, accountID, settlementID string) error
}

// Scheduler flushes dirty state on two independent cadences: a short
// one for the on-device backend and a longer one for the remote store.
// A tick with a clean flag does nothing at all. Transient remote
// failures are swallowed here and retried on the next tick; their only
// trace is the last-synced time not advancing.
type Scheduler struct {
	sctx      *Context
	store     *storage.LocalStorage
	remote    RemoteStore
	accountID string
	log       *zap.Logger

	localInterval  time.Duration
	remoteInterval time.Duration
}

// NewScheduler wires a scheduler over the session context, the local
// store, and the remote client.
func NewScheduler(sctx *Context, store *storage.LocalStorage, remote RemoteStore, accountID string,
	localInterval, remoteInterval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		sctx:           sctx,
		store:          store,
		remote:         remote,
		accountID:      accountID,
		log:            log,
		localInterval:  localInterval,
		remoteInterval: remoteInterval,
	}
}

// Start launches the two flush loops for the lifetime of ctx.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx, s.localInterval, s.flushLocal)
	go s.loop(ctx, s.remoteInterval, func() { s.flushRemote(ctx) })
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, flush func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flush()
		}
	}
}

// flushLocal writes one snapshot to the on-device backend and clears
// the local flag, unless a mutation arrived after the snapshot.
func (s *Scheduler) flushLocal() {
	if !s.sctx.LocalDirty() {
		return
	}
	gen := s.sctx.LocalGen()
	doc := s.store.Snapshot()
	if err := s.store.SaveSnapshot(doc); err != nil {
		s.log.Warn("local flush failed, retrying next tick", zap.Error(err))
		return
	}
	s.sctx.AckLocal(gen)
}

// flushRemote uploads every settlement in one snapshot, then issues the
// deletes pending from locally removed settlements. The remote flag is
// cleared only when everything succeeded and no mutation arrived after
// the snapshot was taken.
func (s *Scheduler) flushRemote(ctx context.Context) {
	if s.sctx.Unauthorized() {
		return
	}
	if !s.sctx.RemoteDirty() {
		return
	}
	gen := s.sctx.RemoteGen()
	doc := s.store.Snapshot()
	dels := s.store.PendingDeletes()

	for i := range doc.Settlements {
		st := doc.Settlements[i]
		if err := s.remote.Put(ctx, s.accountID, st.ID, st); err != nil {
			s.deferOrLatch(err)
			return
		}
	}
	for _, id := range dels {
		if err := s.remote.Delete(ctx, s.accountID, id); err != nil {
			s.deferOrLatch(err)
			return
		}
	}

	s.store.AckDeletes(dels)
	s.sctx.AckRemote(gen)
	s.log.Debug("remote flush complete",
		zap.Int("settlements", len(doc.Settlements)),
		zap.Int("deletes", len(dels)))
}

// deferOrLatch decides the failure path: a rejected credential is
// surfaced once and stops remote flushing for the session, anything
// transient is left for the next tick with no user-facing error.
func (s *Scheduler) deferOrLatch(err error) {
	if errors.Is(err, errors.ErrUnauthorized) {
		s.sctx.SetUnauthorized()
		s.log.Error("remote store rejected credential, sync disabled for this session", zap.Error(err))
		return
	}
	s.log.Debug("remote flush deferred", zap.Error(err))
}
