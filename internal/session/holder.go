// Package session holds the form state of one visitor and runs submissions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/analysis"
	"github.com/yourname/sleepscope/internal/service"
	"github.com/yourname/sleepscope/internal/timeline"
)

const (
	DefaultBedtime      = "22:30"
	DefaultWakeupTime   = "06:30"
	DefaultDisturbances = 2

	MsgInvalidInput   = "Please fill out all fields correctly."
	MsgAnalysisFailed = "Failed to get sleep analysis. Please check your API key and try again."
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission on the same holder has not finished.
var ErrSubmissionInFlight = errors.New("session: submission already in flight")

// State is a consistent copy of everything a page needs to render.
type State struct {
	Bedtime      string                `json:"bedtime"`
	WakeupTime   string                `json:"wakeup_time"`
	Disturbances int                   `json:"disturbances"`
	Valid        bool                  `json:"valid"`
	Loading      bool                  `json:"loading"`
	Analysis     string                `json:"analysis"`
	Error        string                `json:"error"`
	Submitted    *internal.SleepRecord `json:"submitted"`
	Metrics      *timeline.Metrics     `json:"metrics"`
}

type Holder struct {
	mu         sync.Mutex
	analyzer   analysis.Analyzer
	logger     internal.Logger
	fields     service.SleepRecordRequest
	loading    bool
	analysis   string
	errMsg     string
	submitted  *internal.SleepRecord
	lastActive time.Time
}

func NewHolder(analyzer analysis.Analyzer, logger internal.Logger) *Holder {
	return &Holder{
		analyzer: analyzer,
		logger:   logger,
		fields: service.SleepRecordRequest{
			Bedtime:      DefaultBedtime,
			WakeupTime:   DefaultWakeupTime,
			Disturbances: DefaultDisturbances,
		},
		lastActive: time.Now(),
	}
}

func (h *Holder) SetBedtime(v string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fields.Bedtime = v
	h.touch()
}

func (h *Holder) SetWakeupTime(v string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fields.WakeupTime = v
	h.touch()
}

func (h *Holder) SetDisturbances(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fields.Disturbances = n
	h.touch()
}

// Valid reports whether the current fields could be submitted.
func (h *Holder) Valid() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.validated()
	return err == nil
}

// Submit sends the current fields to the analyzer. Loading, analysis, error
// and the submitted record are cleared before the call; on success the
// analysis and record are published, on failure only the generic message.
func (h *Holder) Submit(ctx context.Context) error {
	h.mu.Lock()
	if h.loading {
		h.mu.Unlock()
		return ErrSubmissionInFlight
	}
	h.touch()
	rec, err := h.validated()
	if err != nil {
		h.errMsg = MsgInvalidInput
		h.mu.Unlock()
		return err
	}
	h.loading = true
	h.analysis = ""
	h.errMsg = ""
	h.submitted = nil
	h.mu.Unlock()

	text, err := h.analyzer.Analyze(ctx, rec)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	h.touch()
	if err != nil {
		h.logger.Errorf("session: analysis failed: %v", err)
		h.errMsg = MsgAnalysisFailed
		return err
	}
	h.analysis = text
	h.submitted = &rec
	return nil
}

// Snapshot copies the state and derives the timeline of the submitted record.
// Reading counts as activity for idle eviction.
func (h *Holder) Snapshot() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.touch()
	_, err := h.validated()
	st := State{
		Bedtime:      h.fields.Bedtime,
		WakeupTime:   h.fields.WakeupTime,
		Disturbances: h.fields.Disturbances,
		Valid:        err == nil,
		Loading:      h.loading,
		Analysis:     h.analysis,
		Error:        h.errMsg,
	}
	if h.submitted != nil {
		rec := *h.submitted
		m := timeline.Calculate(rec)
		st.Submitted = &rec
		st.Metrics = &m
	}
	return st
}

func (h *Holder) LastActive() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastActive
}

// validated must be called with mu held.
func (h *Holder) validated() (internal.SleepRecord, error) {
	req := h.fields
	if err := service.ValidateSleepRecordRequest(&req); err != nil {
		return internal.SleepRecord{}, err
	}
	return req.Record(), nil
}

func (h *Holder) touch() {
	h.lastActive = time.Now()
}
