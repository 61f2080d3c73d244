// Package session holds the client-side learning state: the per-feature
// stage controller, the quiz scorer, the dashboard join and the persisted
// identity and chat history.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/learning"
)

var (
	ErrUnknownStage = errors.New("unknown stage")
	ErrStageLocked  = errors.New("stage is locked until the previous one is completed")
	ErrBusy         = errors.New("a request is already in flight")
	ErrNoStage      = errors.New("no stage to refetch")
	ErrFinished     = errors.New("all stages completed")
)

// Feature is a page with a fixed, linear stage sequence.
type Feature struct {
	Name   string
	Stages []string
}

var (
	Theory = Feature{Name: "theory", Stages: []string{"explain", "deep", "references", "quiz"}}
	Lab    = Feature{Name: "lab", Stages: []string{"explanation", "pseudocode", "viva"}}
)

func (f Feature) index(stage string) int {
	return slices.Index(f.Stages, stage)
}

// StageFetcher requests one stage of a feature from the backend.
type StageFetcher interface {
	FetchStage(ctx context.Context, subject, stage string) (learning.StageResult, error)
}

type StageFetcherFunc func(ctx context.Context, subject, stage string) (learning.StageResult, error)

func (f StageFetcherFunc) FetchStage(ctx context.Context, subject, stage string) (learning.StageResult, error) {
	return f(ctx, subject, stage)
}

type Learner interface {
	Learn(ctx context.Context, topic, stage, userID string) (learning.StageResult, error)
}

type LabRunner interface {
	Lab(ctx context.Context, experiment, step string) (learning.LabResult, error)
}

// TheoryFetcher sends userID with every stage so the backend can fold the
// activity into progress.
func TheoryFetcher(api Learner, userID string) StageFetcher {
	return StageFetcherFunc(func(ctx context.Context, topic, stage string) (learning.StageResult, error) {
		return api.Learn(ctx, topic, stage, userID)
	})
}

func LabFetcher(api LabRunner) StageFetcher {
	return StageFetcherFunc(func(ctx context.Context, experiment, step string) (learning.StageResult, error) {
		res, err := api.Lab(ctx, experiment, step)
		return res.StageResult, err
	})
}

type Entry struct {
	Stage  string
	Result learning.StageResult
}

// Controller walks one feature's stages in order. Completed stages are
// cached and revisited without a fetch; a failed fetch leaves history and
// the current stage untouched.
type Controller struct {
	feature Feature
	fetch   StageFetcher

	mu      sync.Mutex
	subject string
	history []Entry
	current int
	loading bool
	err     error
}

func NewController(feature Feature, fetch StageFetcher) *Controller {
	return &Controller{feature: feature, fetch: fetch, current: -1}
}

func (c *Controller) Feature() Feature { return c.feature }

// SetSubject sets the topic or experiment. A different subject starts over.
func (c *Controller) SetSubject(s string) {
	s = strings.TrimSpace(s)
	c.mu.Lock()
	defer c.mu.Unlock()
	if s == c.subject {
		return
	}
	c.subject = s
	c.resetLocked()
}

func (c *Controller) Subject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject
}

// Advance moves to stage. A completed stage is served from the cache; the
// only stage that may be fetched is the first uncompleted one.
func (c *Controller) Advance(ctx context.Context, stage string) (learning.StageResult, error) {
	stage = strings.ToLower(strings.TrimSpace(stage))

	c.mu.Lock()
	if c.subject == "" {
		c.mu.Unlock()
		return learning.StageResult{}, client.ErrEmptyInput
	}
	idx := c.feature.index(stage)
	if idx < 0 {
		c.mu.Unlock()
		return learning.StageResult{}, fmt.Errorf("%w %q for %s", ErrUnknownStage, stage, c.feature.Name)
	}
	if c.loading {
		c.mu.Unlock()
		return learning.StageResult{}, ErrBusy
	}
	if idx < len(c.history) {
		c.current = idx
		c.err = nil
		res := c.history[idx].Result
		c.mu.Unlock()
		return res, nil
	}
	if idx > len(c.history) {
		c.mu.Unlock()
		return learning.StageResult{}, fmt.Errorf("%w: %s", ErrStageLocked, stage)
	}
	subject := c.subject
	c.loading = true
	c.mu.Unlock()

	res, err := c.fetch.FetchStage(ctx, subject, stage)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if subject != c.subject {
		// the subject changed while the request was in flight
		return res, context.Canceled
	}
	if err != nil {
		c.err = err
		return res, err
	}
	c.history = append(c.history, Entry{Stage: stage, Result: res})
	c.current = len(c.history) - 1
	c.err = nil
	return res, nil
}

// Next advances past the last completed stage.
func (c *Controller) Next(ctx context.Context) (learning.StageResult, error) {
	c.mu.Lock()
	n := len(c.history)
	c.mu.Unlock()
	if n >= len(c.feature.Stages) {
		return learning.StageResult{}, ErrFinished
	}
	return c.Advance(ctx, c.feature.Stages[n])
}

// Back moves to the previously completed stage without a fetch.
func (c *Controller) Back() (learning.StageResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current <= 0 {
		return learning.StageResult{}, false
	}
	c.current--
	c.err = nil
	return c.history[c.current].Result, true
}

// Refetch re-requests the current stage, e.g. a fresh quiz for a retake.
// The cached entry is replaced only on success.
func (c *Controller) Refetch(ctx context.Context) (learning.StageResult, error) {
	c.mu.Lock()
	if c.current < 0 {
		c.mu.Unlock()
		return learning.StageResult{}, ErrNoStage
	}
	if c.loading {
		c.mu.Unlock()
		return learning.StageResult{}, ErrBusy
	}
	idx, subject := c.current, c.subject
	stage := c.history[idx].Stage
	c.loading = true
	c.mu.Unlock()

	res, err := c.fetch.FetchStage(ctx, subject, stage)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if subject != c.subject || idx >= len(c.history) {
		return res, context.Canceled
	}
	if err != nil {
		c.err = err
		return res, err
	}
	c.history[idx].Result = res
	c.current = idx
	c.err = nil
	return res, nil
}

// Reset clears history, the current stage and any error.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.history = nil
	c.current = -1
	c.err = nil
}

const StateIdle = "idle"

// State is "idle" or the name of the current stage.
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current < 0 {
		return StateIdle
	}
	return c.history[c.current].Stage
}

func (c *Controller) History() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

func (c *Controller) Current() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current < 0 {
		return Entry{}, false
	}
	return c.history[c.current], true
}

// Err is the last fetch failure, cleared by a later success or Reset.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Completed(stage string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.feature.index(strings.ToLower(strings.TrimSpace(stage)))
	return idx >= 0 && idx < len(c.history)
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// NextStage is the stage Next would fetch, or "" when all are done.
func (c *Controller) NextStage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.history) >= len(c.feature.Stages) {
		return ""
	}
	return c.feature.Stages[len(c.history)]
}
