// Package guard holds both idempotency layers: the durable inbound
// event dedup and the short-lived outbound race lock.
package guard

import (
	"context"
	"log/slog"
)

// DedupStore records event identifiers durably, insert-if-absent.
type DedupStore interface {
	// InsertOnce reports whether the id was newly recorded. A false
	// with nil error means the event was seen before.
	InsertOnce(ctx context.Context, eventID, actor, kind string) (bool, error)
}

// Deduper drops replayed webhook deliveries. Dedup is the only
// instance-durable piece of bot state; everything else may be lost on
// restart without harm.
type Deduper struct {
	store DedupStore
	log   *slog.Logger
}

func NewDeduper(store DedupStore, log *slog.Logger) *Deduper {
	return &Deduper{store: store, log: log}
}

// Allow reports whether the event should be processed. A store failure
// fails open: an audit-table outage must never block the bot.
func (d *Deduper) Allow(ctx context.Context, eventID, actor, kind string) bool {
	if eventID == "" {
		return true
	}
	inserted, err := d.store.InsertOnce(ctx, eventID, actor, kind)
	if err != nil {
		d.log.Warn("dedup store failed, failing open", "event_id", eventID, "err", err)
		return true
	}
	if !inserted {
		d.log.Info("duplicate event dropped", "event_id", eventID)
	}
	return inserted
}
