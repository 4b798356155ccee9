// Package relay fans a transformed submission out to both downstream webhooks.
package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lottery-tool-middleware/internal/models"
	"lottery-tool-middleware/internal/utils"
)

// Sender performs the two outbound calls. Implementations report failures
// through the returned result and must not panic, though panics are contained.
type Sender interface {
	SendToLottery(ctx context.Context, payload models.LotteryPayload) models.SendResult
	SendToPowerAutomate(ctx context.Context, payload models.AutomationPayload) models.SendResult
}

// Relay dispatches submissions, either inline or in the background.
type Relay struct {
	sender Sender
	wg     sync.WaitGroup
}

// New creates a relay around sender.
func New(sender Sender) *Relay {
	return &Relay{sender: sender}
}

// Dispatch sends both payloads concurrently and waits for both results.
// One destination failing never cancels or alters the other.
func (r *Relay) Dispatch(ctx context.Context, lottery models.LotteryPayload, automation models.AutomationPayload) models.DispatchReport {
	return r.dispatch(ctx, uuid.NewString(), lottery, automation)
}

// Schedule starts a background dispatch and returns its id immediately.
// The dispatch is not tied to any request context and always runs to completion.
func (r *Relay) Schedule(lottery models.LotteryPayload, automation models.AutomationPayload) string {
	dispatchID := uuid.NewString()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				utils.GetLogger().Error("Background dispatch panicked",
					utils.String("dispatchId", dispatchID),
					utils.Any("panic", rec))
			}
		}()

		report := r.dispatch(context.Background(), dispatchID, lottery, automation)
		logReport(report)
	}()

	return dispatchID
}

// Wait blocks until every scheduled dispatch has finished or ctx is done.
func (r *Relay) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for dispatches: %w", ctx.Err())
	}
}

func (r *Relay) dispatch(ctx context.Context, dispatchID string, lottery models.LotteryPayload, automation models.AutomationPayload) models.DispatchReport {
	start := time.Now()
	report := models.DispatchReport{DispatchID: dispatchID}

	// Each goroutine writes only its own field; Wait orders the writes before the read.
	var g errgroup.Group
	g.Go(func() error {
		report.LotterySystem = capture("lottery_system", func() models.SendResult {
			return r.sender.SendToLottery(ctx, lottery)
		})
		return nil
	})
	g.Go(func() error {
		report.PowerAutomate = capture("power_automate", func() models.SendResult {
			return r.sender.SendToPowerAutomate(ctx, automation)
		})
		return nil
	})
	_ = g.Wait()

	report.Duration = time.Since(start)
	return report
}

// capture turns a panicking send into a failed result.
func capture(destination string, send func() models.SendResult) (result models.SendResult) {
	defer func() {
		if rec := recover(); rec != nil {
			utils.GetLogger().Error("Send panicked",
				utils.String("destination", destination),
				utils.Any("panic", rec))
			result = models.FailedResult(0, fmt.Errorf("panic while sending to %s: %v", destination, rec))
		}
	}()
	return send()
}

func logReport(report models.DispatchReport) {
	logger := utils.GetLogger()
	fields := []utils.LogField{
		utils.String("dispatchId", report.DispatchID),
		utils.Any("lotterySystem", report.LotterySystem),
		utils.Any("powerAutomate", report.PowerAutomate),
		utils.Duration("duration", report.Duration),
	}
	if report.Succeeded() {
		logger.Info("Webhook relay completed", fields...)
		return
	}
	logger.Warn("Webhook relay completed with failures", fields...)
}
