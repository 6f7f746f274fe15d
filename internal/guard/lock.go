package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/stock-bot/internal/kvstore"
)

// LockTTL bounds how long a rapid double-tap stays blocked. The lock
// is never explicitly released: a crashed handler must not be able to
// leave a permanent lock behind, so expiry is the only release path.
const LockTTL = 5 * time.Second

// OutboundLock narrows, but does not eliminate, the double-submit
// race before a ledger mutation. True correctness rests on the
// ledger's own re-validation.
type OutboundLock struct {
	kv  kvstore.Store
	log *slog.Logger
}

func NewOutboundLock(kv kvstore.Store, log *slog.Logger) *OutboundLock {
	return &OutboundLock{kv: kv, log: log}
}

// TryAcquire reports whether the actor may proceed. Store failures
// fail open, same policy as dedup.
func (l *OutboundLock) TryAcquire(ctx context.Context, actor string) bool {
	ok, err := l.kv.SetNX(ctx, "lock:out:"+actor, []byte("1"), LockTTL)
	if err != nil {
		l.log.Warn("outbound lock store failed, failing open", "actor", actor, "err", err)
		return true
	}
	return ok
}
