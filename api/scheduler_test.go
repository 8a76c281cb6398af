package api

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsOncePerDay(t *testing.T) {
	// GIVEN: One salaried employee and a scheduler pinned to March 14
	h, router := newTestHandler(t)
	createEmployee(t, router, map[string]any{
		"name": "Olaf", "address": "A", "scheme": "salaried", "method": "mail", "monthly_pay": 3000,
	})
	sched := NewPaydayScheduler(h)
	sched.now = h.now
	ctx := context.Background()

	// WHEN: Checking twice on the same day
	first := sched.RunNow(ctx)
	second := sched.RunNow(ctx)

	// THEN: Only the first check pays
	assert.True(t, first)
	assert.False(t, second)

	payments, err := h.Store.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	// AND: The next day pays again
	sched.now = func() time.Time { return march14.AddDate(0, 0, 1) }
	assert.True(t, sched.RunNow(ctx))
	payments, err = h.Store.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestScheduler_ManualRunCountsAsDone(t *testing.T) {
	h, router := newTestHandler(t)
	rec := do(t, router, http.MethodPost, "/api/payday", PaydayRequest{Date: "2025-03-14"})
	require.Equal(t, http.StatusOK, rec.Code)

	sched := NewPaydayScheduler(h)
	sched.now = h.now

	assert.False(t, sched.RunNow(context.Background()))
}

func TestScheduler_StartStop(t *testing.T) {
	h, _ := newTestHandler(t)
	sched := NewPaydayScheduler(h)
	sched.now = h.now
	sched.CheckInterval = time.Hour

	sched.Start()
	sched.Stop()

	// The immediate check on start has finished once Stop returns
	runs, err := h.Store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	// Stop is idempotent
	sched.Stop()
}

func TestScheduler_Disabled(t *testing.T) {
	h, _ := newTestHandler(t)
	sched := NewPaydayScheduler(h)
	sched.Enabled = false

	sched.Start()
	sched.Stop()

	runs, err := h.Store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunPaydayOnce_ConcurrentCallersPayOnce(t *testing.T) {
	// GIVEN: One salaried employee
	h, router := newTestHandler(t)
	createEmployee(t, router, map[string]any{
		"name": "Olaf", "address": "A", "scheme": "salaried", "method": "mail", "monthly_pay": 3000,
	})
	ctx := context.Background()

	// WHEN: Several callers race to run the same date
	const callers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		rans int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, ran, err := h.RunPaydayOnce(ctx, march14)
			assert.NoError(t, err)
			if ran {
				mu.Lock()
				rans++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// THEN: Exactly one of them ran payday
	assert.Equal(t, 1, rans)
	payments, err := h.Store.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments, 1)
	runs, err := h.Store.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunPaydayOnce_SkipsAfterManualRun(t *testing.T) {
	h, router := newTestHandler(t)
	createEmployee(t, router, map[string]any{
		"name": "Olaf", "address": "A", "scheme": "salaried", "method": "mail", "monthly_pay": 3000,
	})
	_, _, err := h.RunPayday(context.Background(), march14)
	require.NoError(t, err)

	record, run, ran, err := h.RunPaydayOnce(context.Background(), march14)

	require.NoError(t, err)
	assert.False(t, ran)
	assert.Nil(t, run)
	assert.Empty(t, record.ID)
}
