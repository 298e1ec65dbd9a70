package engine

import (
	"context"
	"time"

	"github.com/poiesic/launchpad/action"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/ranking"
)

// Primary launches item and records the launch after the launch delay.
func (e *Engine) Primary(ctx context.Context, item core.LaunchItem) error {
	return e.Act(ctx, item, action.Primary)
}

// Secondary opens the details of an app or deletes a shortcut.
func (e *Engine) Secondary(ctx context.Context, item core.LaunchItem) error {
	return e.Act(ctx, item, action.Secondary)
}

// Tertiary toggles the deprioritization of an app.
func (e *Engine) Tertiary(ctx context.Context, item core.LaunchItem) error {
	return e.Act(ctx, item, action.Tertiary)
}

// Act runs action kind on item.
func (e *Engine) Act(ctx context.Context, item core.LaunchItem, kind action.Kind) error {
	plan, err := action.Decide(item, kind, e.launchDelay)
	if err != nil {
		return err
	}
	return e.execute(ctx, plan)
}

// Go commits the current query: it launches the best match, or searches the
// web when nothing matches. A blank query does nothing. The result is ranked
// from the latest inputs, so a query set just before is taken into account
// even if no snapshot reflects it yet.
func (e *Engine) Go(ctx context.Context) error {
	query, _ := e.query.get()
	items, _ := e.items.get()
	counters, _ := e.counters.get()
	deleted, _ := e.deleted.get()

	result := ranking.RankResult(items, query, counters, deleted)
	plan, err := action.DecideGo(result, query, e.launchDelay)
	if err != nil {
		return err
	}
	return e.execute(ctx, plan)
}

// WebSearch searches the web for the current query as typed.
func (e *Engine) WebSearch(ctx context.Context) error {
	query, _ := e.query.get()
	return e.execute(ctx, action.DecideWebSearch(query))
}

// execute runs the effects of plan in order. Sink failures are logged and
// skipped; store failures are returned.
func (e *Engine) execute(ctx context.Context, plan action.Plan) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if plan.IsEmpty() {
		return nil
	}
	e.metrics.actions.WithLabelValues(plan.Action.String()).Inc()

	for _, effect := range plan.Effects {
		switch effect.Kind {
		case action.EffectRequest:
			if err := e.sink.Launch(ctx, effect.Request); err != nil {
				e.metrics.dispatchFailures.WithLabelValues(effect.Request.Kind.String()).Inc()
				e.logger.Error("error dispatching request", "request", effect.Request.String(), "err", err)
			}
		case action.EffectRecordLaunch:
			if effect.Delay > 0 {
				e.scheduleRecord(effect.ItemID, effect.Delay)
			} else {
				e.recordLaunch(effect.ItemID)
			}
		case action.EffectDelete:
			if err := e.store.Delete(ctx, effect.ItemID); err != nil {
				return err
			}
		case action.EffectDeprioritize:
			if err := e.store.Deprioritize(ctx, effect.ItemID); err != nil {
				return err
			}
		case action.EffectUndeprioritize:
			if err := e.store.Undeprioritize(ctx, effect.ItemID); err != nil {
				return err
			}
		}
	}
	return nil
}

// scheduleRecord records a launch of id after delay. Close runs any record
// still waiting.
func (e *Engine) scheduleRecord(id string, delay time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	key := e.nextTimer
	e.nextTimer++
	e.records.Add(1)
	e.pending[key] = pendingRecord{
		id: id,
		timer: time.AfterFunc(delay, func() {
			defer e.records.Done()
			e.mu.Lock()
			delete(e.pending, key)
			e.mu.Unlock()
			e.recordLaunch(id)
		}),
	}
}

// recordLaunch is detached from the caller's context: it runs after the
// action returned.
func (e *Engine) recordLaunch(id string) {
	if err := e.store.RecordLaunch(context.Background(), id); err != nil {
		e.logger.Error("error recording launch", "id", id, "err", err)
		return
	}
	e.logger.Debug("launch recorded", "id", id)
}
