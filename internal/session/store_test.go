package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legaldesk/internal/model"
)

func TestStore_DispatchAndSubscribe(t *testing.T) {
	st := NewStore()

	var seen []ActionType
	unsubscribe := st.Subscribe(func(prev, next State, a Action) {
		seen = append(seen, a.Type)
	})

	_, err := st.Dispatch(SetProcessing(true))
	require.NoError(t, err)
	_, err = st.Dispatch(SetView(ViewDocument))
	require.ErrorIs(t, err, ErrNoDocument)

	unsubscribe()
	_, _ = st.Dispatch(SetProcessing(false))

	assert.Equal(t, []ActionType{ActionSetProcessing}, seen)
	assert.False(t, st.State().IsProcessing)
}

func TestStore_BatchGuard(t *testing.T) {
	st := NewStore()
	guard := func(s State) error {
		if s.IsProcessing {
			return ErrAlreadyProcessing
		}
		return nil
	}

	_, err := st.Batch(guard, SetProcessing(true), SetView(ViewAnalyzing))
	require.NoError(t, err)

	_, err = st.Batch(guard, SetProcessing(true), SetView(ViewAnalyzing))
	assert.ErrorIs(t, err, ErrAlreadyProcessing)
}

func TestStore_BatchIsAtomic(t *testing.T) {
	st := NewStore()

	_, err := st.Batch(nil, SetProcessing(true), SetView(ViewDocument))
	require.ErrorIs(t, err, ErrNoDocument)

	assert.Equal(t, Initial(), st.State())
}

func TestStore_ConcurrentSubmissionsOnlyOneWins(t *testing.T) {
	st := NewStore()
	guard := func(s State) error {
		if s.IsProcessing {
			return ErrAlreadyProcessing
		}
		return nil
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.Batch(guard, SetProcessing(true)); err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
}

func TestStore_TasksCancelledOnReset(t *testing.T) {
	for _, a := range []Action{ResetState(), ClearDocument()} {
		t.Run(string(a.Type), func(t *testing.T) {
			st := NewStore()
			done := make(chan error, 1)
			st.Go(context.Background(), func(ctx context.Context) {
				<-ctx.Done()
				done <- ctx.Err()
			})
			assert.Equal(t, 1, st.Tasks())

			_, err := st.Dispatch(a)
			require.NoError(t, err)

			select {
			case err := <-done:
				assert.True(t, errors.Is(err, context.Canceled))
			case <-time.After(time.Second):
				t.Fatal("task was not cancelled")
			}
			assert.Eventually(t, func() bool { return st.Tasks() == 0 }, time.Second, 5*time.Millisecond)
		})
	}
}

func TestStore_TaskReleasesItself(t *testing.T) {
	st := NewStore()
	st.Go(context.Background(), func(ctx context.Context) {})

	assert.Eventually(t, func() bool { return st.Tasks() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStore_HealthDispatchKeepsTasks(t *testing.T) {
	st := NewStore()
	cancel := st.Go(context.Background(), func(ctx context.Context) { <-ctx.Done() })
	defer cancel()

	_, _ = st.Dispatch(SetBackendHealth(model.HealthSnapshot{Online: true}))

	assert.Equal(t, 1, st.Tasks())
}

func TestStore_BatchAtRejectsStaleGeneration(t *testing.T) {
	st := NewStore()
	gen := st.Generation()

	_, err := st.BatchAt(gen, nil, SetProcessing(true))
	require.NoError(t, err)
	assert.Equal(t, gen, st.Generation(), "ordinary actions keep the generation")

	_, _ = st.Dispatch(ResetState())
	assert.Equal(t, gen+1, st.Generation())

	_, err = st.BatchAt(gen, nil, SetDocument("doc-1", "late.pdf", nil), SetView(ViewDocument))
	require.ErrorIs(t, err, ErrStale)
	assert.Nil(t, st.State().CurrentDocument)
	assert.Equal(t, ViewDashboard, st.State().ActiveView)

	_, _ = st.Dispatch(ClearDocument())
	assert.Equal(t, gen+2, st.Generation())
}

func TestStore_BindCancelledOnBack(t *testing.T) {
	st := NewStore()

	ctx, done := st.Bind(testContext(t))
	defer done()
	assert.Equal(t, 1, st.Tasks())

	_, _ = st.Dispatch(ClearDocument())

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("bound context not cancelled on back")
	}
	assert.Equal(t, 0, st.Tasks())
}

func TestStore_BindReleaseDropsTask(t *testing.T) {
	st := NewStore()

	ctx, done := st.Bind(testContext(t))
	done()

	assert.Error(t, ctx.Err())
	assert.Equal(t, 0, st.Tasks())
}
