package game

import (
	"context"
	"errors"
	"fmt"
)

// decide asks the player's provider for a decision, waiting at most the
// configured timeout. Timeouts, errors and panics fall back to check, or
// fold when facing a bet.
func (h *Hand) decide(ctx context.Context, p *Player, req DecisionRequest) (Decision, FallbackReason) {
	if p.Provider == nil {
		h.logger.Warn("no action provider, using default action", "player", p.Name)
		return safeDefault(req, "no provider"), FallbackError
	}

	var cancel context.CancelFunc
	if h.timeout > 0 {
		// Remote providers turn the deadline into socket deadlines.
		ctx, cancel = context.WithDeadline(ctx, h.clock.Now().Add(h.timeout))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	// The timer is armed before the provider is asked.
	var expired chan struct{}
	if h.timeout > 0 {
		expired = make(chan struct{})
		timer := h.clock.AfterFunc(h.timeout, func() {
			close(expired)
		}, "decision")
		defer timer.Stop()
	}

	type outcome struct {
		decision Decision
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		d, err := p.Provider.Decide(ctx, req)
		done <- outcome{decision: d, err: err}
	}()

	select {
	case out := <-done:
		if errors.Is(out.err, context.DeadlineExceeded) {
			return h.timedOut(p, req)
		}
		if out.err != nil {
			h.logger.Warn("Action provider failed, using default action", "player", p.Name, "error", out.err)
			return safeDefault(req, "provider error"), FallbackError
		}
		return out.decision, NoFallback

	case <-expired:
		return h.timedOut(p, req)

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return h.timedOut(p, req)
		}
		h.logger.Warn("Decision cancelled, using default action", "player", p.Name, "error", ctx.Err())
		return safeDefault(req, "cancelled"), FallbackError
	}
}

func (h *Hand) timedOut(p *Player, req DecisionRequest) (Decision, FallbackReason) {
	h.logger.Warn("Decision timeout, using default action", "player", p.Name, "timeout", h.timeout)
	return safeDefault(req, "decision timeout"), FallbackTimeout
}

func safeDefault(req DecisionRequest, reason string) Decision {
	if req.ToCall > 0 {
		return Decision{Action: Fold, Reasoning: reason}
	}
	return Decision{Action: Check, Reasoning: reason}
}
