package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/avdeyev/SettlementKeeper/internal/client/storage"
	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// Decision is the user's answer when local and remote settlement sets
// diverge.
type Decision int

const (
	// DecisionKeepLocal keeps the device's data; the remote copy is
	// overwritten on the next scheduled flush.
	DecisionKeepLocal Decision = iota
	// DecisionUseCloud replaces the device's data with the remote copy,
	// swapped in wholesale.
	DecisionUseCloud
	// DecisionCancel changes nothing; the prompt returns at the next
	// login.
	DecisionCancel
)

// DecisionFunc presents the three-way choice to the user and blocks
// until they answer. The test harness or UI supplies it; no global
// state threads the answer back.
type DecisionFunc func(ctx context.Context, local, remote []models.Settlement) (Decision, error)

// Lister is the slice of the remote API the resolver needs.
type Lister interface {
	List(ctx context.Context, accountID string) ([]models.Settlement, error)
}

// Resolver reconciles the local and remote settlement sets once per
// authenticated session.
type Resolver struct {
	sctx   *Context
	store  *storage.LocalStorage
	remote Lister
	decide DecisionFunc
	log    *zap.Logger
}

// NewResolver wires a resolver over the session context, the local
// store, and the remote client.
func NewResolver(sctx *Context, store *storage.LocalStorage, remote Lister, decide DecisionFunc, log *zap.Logger) *Resolver {
	return &Resolver{sctx: sctx, store: store, remote: remote, decide: decide, log: log}
}

// LoginSync fetches the account's remote settlements and reconciles
// them with the local set. It runs at most once per account per
// session; repeats and concurrent invocations are no-ops. Matching or
// one-sided states resolve silently; only genuine divergence raises the
// decision surface, because any structural difference may hide data the
// user would lose.
func (r *Resolver) LoginSync(ctx context.Context, accountID string) error {
	if !r.sctx.BeginResolve() {
		return nil
	}
	defer r.sctx.EndResolve()

	if r.sctx.RemoteLoaded(accountID) {
		return nil
	}

	remote, err := r.remote.List(ctx, accountID)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			r.sctx.SetUnauthorized()
			return err
		}
		// Transient: the session marker stays clear so the next login
		// attempt loads again.
		r.log.Warn("remote load failed, reconciliation deferred", zap.Error(err))
		return err
	}

	local := r.store.Settlements()

	switch {
	case len(local) == 0 && len(remote) == 0:
		// Fresh account on a fresh device.

	case len(local) == 0:
		// New device: silently adopt the remote copy.
		r.store.ReplaceSettlements(remote)
		r.sctx.MarkLocalDirty()
		r.log.Info("adopted remote settlements", zap.Int("count", len(remote)))

	case len(remote) == 0:
		// Remote store is empty: keep local and schedule the upload.
		r.sctx.MarkRemoteDirty()

	default:
		if !models.SettlementSetsEquivalent(local, remote) {
			if err := r.arbitrate(ctx, local, remote); err != nil {
				return err
			}
		}
	}

	r.sctx.MarkRemoteLoaded(accountID)
	return nil
}

func (r *Resolver) arbitrate(ctx context.Context, local, remote []models.Settlement) error {
	decision, err := r.decide(ctx, local, remote)
	if err != nil {
		return err
	}
	switch decision {
	case DecisionKeepLocal:
		r.sctx.MarkRemoteDirty()
		r.log.Info("conflict resolved: keeping local data")
	case DecisionUseCloud:
		r.store.ReplaceSettlements(remote)
		r.sctx.MarkLocalDirty()
		r.log.Info("conflict resolved: adopted cloud data")
	case DecisionCancel:
		r.log.Info("conflict resolution cancelled, will ask again next login")
	}
	return nil
}
