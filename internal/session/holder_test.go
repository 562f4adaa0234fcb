package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/service"
)

type fakeAnalyzer struct {
	calls   int32
	reply   string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, rec internal.SleepRecord) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeAnalyzer) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

func TestHolder_Defaults(t *testing.T) {
	h := NewHolder(&fakeAnalyzer{}, internal.NewNopLogger())
	st := h.Snapshot()
	assert.Equal(t, DefaultBedtime, st.Bedtime)
	assert.Equal(t, DefaultWakeupTime, st.WakeupTime)
	assert.Equal(t, DefaultDisturbances, st.Disturbances)
	assert.True(t, st.Valid)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Submitted)
	assert.Nil(t, st.Metrics)
}

func TestHolder_Validity(t *testing.T) {
	h := NewHolder(&fakeAnalyzer{}, internal.NewNopLogger())
	h.SetBedtime("")
	assert.False(t, h.Valid())
	h.SetBedtime("23:00")
	h.SetWakeupTime("")
	assert.False(t, h.Valid())
	h.SetWakeupTime("07:00")
	h.SetDisturbances(-1)
	assert.False(t, h.Valid())
	h.SetDisturbances(0)
	assert.True(t, h.Valid())
}

func TestHolder_SubmitSuccess(t *testing.T) {
	fa := &fakeAnalyzer{reply: "**Summary**\nFine."}
	h := NewHolder(fa, internal.NewNopLogger())

	require.NoError(t, h.Submit(context.Background()))

	st := h.Snapshot()
	assert.Equal(t, 1, fa.Calls())
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, "**Summary**\nFine.", st.Analysis)
	require.NotNil(t, st.Submitted)
	assert.Equal(t, internal.SleepRecord{Bedtime: "22:30", WakeupTime: "06:30", Disturbances: 2}, *st.Submitted)
	require.NotNil(t, st.Metrics)
	assert.Equal(t, 480, st.Metrics.TotalMinutes)
	assert.Len(t, st.Metrics.DisturbancePositions, 2)
}

func TestHolder_SubmitInvalidSkipsAnalyzer(t *testing.T) {
	fa := &fakeAnalyzer{reply: "unused"}
	h := NewHolder(fa, internal.NewNopLogger())
	h.SetBedtime("")

	err := h.Submit(context.Background())
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, 0, fa.Calls())
	assert.Equal(t, MsgInvalidInput, h.Snapshot().Error)
}

func TestHolder_SubmitFailureClearsPreviousResult(t *testing.T) {
	fa := &fakeAnalyzer{reply: "first"}
	h := NewHolder(fa, internal.NewNopLogger())
	require.NoError(t, h.Submit(context.Background()))

	fa.reply = ""
	fa.err = errors.New("quota exceeded")
	err := h.Submit(context.Background())
	assert.Error(t, err)

	st := h.Snapshot()
	assert.Equal(t, MsgAnalysisFailed, st.Error)
	assert.Empty(t, st.Analysis)
	assert.Nil(t, st.Submitted)
	assert.Nil(t, st.Metrics)
	assert.False(t, st.Loading)
}

func TestHolder_ConcurrentSubmitRejected(t *testing.T) {
	fa := &fakeAnalyzer{reply: "done", started: make(chan struct{}, 1), release: make(chan struct{})}
	h := NewHolder(fa, internal.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- h.Submit(context.Background()) }()
	<-fa.started

	st := h.Snapshot()
	assert.True(t, st.Loading)
	assert.Empty(t, st.Analysis)
	assert.Empty(t, st.Error)

	h.SetDisturbances(5)
	assert.ErrorIs(t, h.Submit(context.Background()), ErrSubmissionInFlight)
	assert.Equal(t, 1, fa.Calls())

	close(fa.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("submission did not finish")
	}

	st = h.Snapshot()
	assert.False(t, st.Loading)
	assert.Equal(t, "done", st.Analysis)
	require.NotNil(t, st.Submitted)
	assert.Equal(t, 2, st.Submitted.Disturbances)
	assert.Equal(t, 5, st.Disturbances)
}
