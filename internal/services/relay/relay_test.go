package relay_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-tool-middleware/internal/models"
	"lottery-tool-middleware/internal/services/relay"
	"lottery-tool-middleware/internal/services/webhook"
)

type fakeSender struct {
	mu         sync.Mutex
	lottery    []models.LotteryPayload
	automation []models.AutomationPayload

	lotteryFn    func() models.SendResult
	automationFn func() models.SendResult
}

func (f *fakeSender) SendToLottery(_ context.Context, p models.LotteryPayload) models.SendResult {
	f.mu.Lock()
	f.lottery = append(f.lottery, p)
	f.mu.Unlock()
	if f.lotteryFn != nil {
		return f.lotteryFn()
	}
	return models.SendResult{Success: true}
}

func (f *fakeSender) SendToPowerAutomate(_ context.Context, p models.AutomationPayload) models.SendResult {
	f.mu.Lock()
	f.automation = append(f.automation, p)
	f.mu.Unlock()
	if f.automationFn != nil {
		return f.automationFn()
	}
	return models.SendResult{Success: true}
}

var (
	lotteryPayload    = models.LotteryPayload{Code: "12345"}
	automationPayload = models.AutomationPayload{StudentID: "12345"}
)

func TestDispatch_BothSucceed(t *testing.T) {
	sender := &fakeSender{}

	report := relay.New(sender).Dispatch(context.Background(), lotteryPayload, automationPayload)

	assert.NotEmpty(t, report.DispatchID)
	assert.True(t, report.LotterySystem.Success)
	assert.True(t, report.PowerAutomate.Success)
	assert.True(t, report.Succeeded())
	assert.Equal(t, []models.LotteryPayload{lotteryPayload}, sender.lottery)
	assert.Equal(t, []models.AutomationPayload{automationPayload}, sender.automation)
}

func TestDispatch_RunsConcurrently(t *testing.T) {
	// Each send waits for the other to start; sequential sends would deadlock.
	var started sync.WaitGroup
	started.Add(2)
	rendezvous := func() models.SendResult {
		started.Done()
		started.Wait()
		return models.SendResult{Success: true}
	}
	sender := &fakeSender{lotteryFn: rendezvous, automationFn: rendezvous}

	done := make(chan models.DispatchReport, 1)
	go func() {
		done <- relay.New(sender).Dispatch(context.Background(), lotteryPayload, automationPayload)
	}()

	select {
	case report := <-done:
		assert.True(t, report.Succeeded())
	case <-time.After(2 * time.Second):
		t.Fatal("sends did not run concurrently")
	}
}

func TestDispatch_FailureIsIsolated(t *testing.T) {
	sender := &fakeSender{
		lotteryFn: func() models.SendResult {
			return models.FailedResult(0, errors.New("timeout"))
		},
	}

	report := relay.New(sender).Dispatch(context.Background(), lotteryPayload, automationPayload)

	assert.False(t, report.LotterySystem.Success)
	assert.Equal(t, "timeout", report.LotterySystem.Error)
	assert.True(t, report.PowerAutomate.Success)
	assert.False(t, report.Succeeded())
}

func TestDispatch_PanicBecomesFailure(t *testing.T) {
	sender := &fakeSender{
		automationFn: func() models.SendResult { panic("boom") },
	}

	report := relay.New(sender).Dispatch(context.Background(), lotteryPayload, automationPayload)

	assert.True(t, report.LotterySystem.Success)
	assert.False(t, report.PowerAutomate.Success)
	assert.Contains(t, report.PowerAutomate.Error, "boom")
}

func TestDispatch_TimeoutOnOneDestination(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer fast.Close()

	t.Run("lottery times out", func(t *testing.T) {
		client := webhook.NewClient(slow.URL, "t", fast.URL, 100*time.Millisecond)
		report := relay.New(client).Dispatch(context.Background(), lotteryPayload, automationPayload)

		assert.False(t, report.LotterySystem.Success)
		assert.NotEmpty(t, report.LotterySystem.Error)
		assert.True(t, report.PowerAutomate.Success)
		require.NotNil(t, report.PowerAutomate.StatusCode)
		assert.Equal(t, http.StatusOK, *report.PowerAutomate.StatusCode)
	})

	t.Run("automation times out", func(t *testing.T) {
		client := webhook.NewClient(fast.URL, "t", slow.URL, 100*time.Millisecond)
		report := relay.New(client).Dispatch(context.Background(), lotteryPayload, automationPayload)

		assert.False(t, report.PowerAutomate.Success)
		assert.NotEmpty(t, report.PowerAutomate.Error)
		assert.Nil(t, report.PowerAutomate.StatusCode)
		assert.True(t, report.LotterySystem.Success)
		require.NotNil(t, report.LotterySystem.StatusCode)
		assert.Equal(t, http.StatusOK, *report.LotterySystem.StatusCode)
	})
}

func TestSchedule_RunsInBackground(t *testing.T) {
	gate := make(chan struct{})
	sender := &fakeSender{
		lotteryFn: func() models.SendResult {
			<-gate
			return models.SendResult{Success: true}
		},
	}
	r := relay.New(sender)

	id := r.Schedule(lotteryPayload, automationPayload)
	assert.NotEmpty(t, id)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, r.Wait(ctx), "dispatch should still be blocked")

	close(gate)
	require.NoError(t, r.Wait(context.Background()))

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.lottery, 1)
	assert.Len(t, sender.automation, 1)
}

func TestWait_NothingScheduled(t *testing.T) {
	assert.NoError(t, relay.New(&fakeSender{}).Wait(context.Background()))
}
