package botconsole

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// ExecutionStatus is the state of the execution simulator.
type ExecutionStatus string

const (
	StatusIdle    ExecutionStatus = "idle"
	StatusRunning ExecutionStatus = "running"
	StatusPaused  ExecutionStatus = "paused"
	StatusStopped ExecutionStatus = "stopped"
)

const (
	// TickInterval is the cadence of simulated progress.
	TickInterval = 200 * time.Millisecond
	// ProgressStep is the progress added per tick, in percentage points.
	ProgressStep = 2
	// StopResetDelay is how long the simulator stays stopped before returning to idle.
	StopResetDelay = time.Second

	ReadyMessage = "Ready. Describe a task or pick a preset."
)

// Controls reports which execution controls are enabled.
type Controls struct {
	CanStart bool `json:"canStart"`
	CanPause bool `json:"canPause"`
	CanStop  bool `json:"canStop"`
	// Resume is true when start would resume a paused execution.
	Resume bool `json:"resume"`
}

// Snapshot is a read-only copy of the console state.
type Snapshot struct {
	Form        TaskForm        `json:"form"`
	FieldErrors FieldErrors     `json:"fieldErrors"`
	Presets     []Preset        `json:"presets"`
	Generating  bool            `json:"generating"`
	HasPlan     bool            `json:"hasPlan"`
	PlanView    string          `json:"planView"`
	PlanModel   string          `json:"planModel,omitempty"`
	ViewMode    ViewMode        `json:"viewMode"`
	Confirmed   bool            `json:"confirmed"`
	Status      ExecutionStatus `json:"status"`
	Progress    int             `json:"progress"`
	Controls    Controls        `json:"controls"`
	EventCount  int             `json:"eventCount"`
}

// Console owns all mutable state of a session: the task form, the current
// plan and its confirmation, the execution simulator and the event log. Every
// operation and every timer callback holds the same lock, so state changes are
// strictly sequential.
type Console struct {
	mu sync.Mutex

	planner   Planner
	scheduler Scheduler
	now       func() time.Time
	logger    *slog.Logger
	events    *EventLog

	form        TaskForm
	fieldErrors FieldErrors

	plan       Plan
	planText   string
	planModel  string
	viewMode   ViewMode
	confirmed  bool
	generating bool

	status   ExecutionStatus
	progress int

	// ticker is the only live progress timer. tickerGen changes whenever it is
	// released so that callbacks of a released timer become no-ops.
	ticker    Task
	tickerGen uint64

	stopReset    Task
	stopResetGen uint64
}

// Option configures a Console.
type Option func(*Console)

// WithScheduler replaces the time based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Console) {
		c.scheduler = s
	}
}

// WithClock sets the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// WithLogger sets the logger that mirrors events and timer activity.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// New creates a console that acquires plans from planner.
func New(planner Planner, options ...Option) *Console {
	c := &Console{
		planner:     planner,
		scheduler:   NewTimeScheduler(),
		now:         time.Now,
		logger:      slog.Default(),
		fieldErrors: FieldErrors{},
		viewMode:    ViewModeText,
		status:      StatusIdle,
	}
	for _, opt := range options {
		opt(c)
	}
	c.events = NewEventLog(c.logger)

	c.emit(EventSystem, ReadyMessage)
	return c
}

// Events returns the event log.
func (c *Console) Events() *EventLog {
	return c.events
}

// emit must be called with c.mu held, or before c is shared.
func (c *Console) emit(eventType EventType, message string) {
	c.events.Append(NewEvent(eventType, message, c.now()))
}

// UpdateField sets one form field and clears that field's validation error.
// Errors of other fields are left as they are.
func (c *Console) UpdateField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.form.Set(field, value); err != nil {
		return err
	}
	delete(c.fieldErrors, field)
	return nil
}

// GeneratePlan validates the form and, if valid, acquires a new plan. A new
// plan replaces the previous one and resets the confirmation. On failure the
// previous plan and the execution state are left untouched. Every outcome is
// reported as an event.
func (c *Console) GeneratePlan(ctx context.Context) error {
	c.mu.Lock()
	if c.generating {
		c.mu.Unlock()
		return goerr.Wrap(ErrGenerationInProgress, "plan request rejected")
	}

	c.fieldErrors = c.form.Validate()
	if len(c.fieldErrors) > 0 {
		errs := copyFieldErrors(c.fieldErrors)
		c.emit(EventError, "Please fill in all required fields")
		c.mu.Unlock()
		return goerr.Wrap(ErrValidation, "plan request rejected", goerr.V("fields", errs))
	}

	form := c.form
	c.generating = true
	c.emit(EventSystem, "Generating plan...")
	c.mu.Unlock()

	result, err := c.planner.GeneratePlan(ctx, form)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generating = false

	if err != nil {
		c.emit(EventError, "Error: "+failureMessage(err))
		return err
	}

	c.plan = result.Plan
	c.planText = result.Text
	c.planModel = result.Model
	c.confirmed = false
	c.emit(EventSuccess, "Plan generated successfully")

	if sp, ok := result.Plan.(*StructuredPlan); ok {
		if err := CheckPlan(sp); err != nil {
			ctxlog.From(ctx).Warn("plan does not conform to schema", slog.Any("error", err))
			c.emit(EventSystem, "Plan does not match the expected structure; review it before confirming")
		}
	}

	return nil
}

func failureMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to generate plan"
}

// SetViewMode selects the plan rendering.
func (c *Console) SetViewMode(mode ViewMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewMode = mode
	return nil
}

// SetConfirmed drives the confirmation gate. It fails when there is no plan to
// confirm.
func (c *Console) SetConfirmed(confirmed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.plan == nil {
		return goerr.Wrap(ErrNoPlan, "cannot change plan confirmation")
	}
	c.confirmed = confirmed
	return nil
}

func (c *Console) controls() Controls {
	return Controls{
		CanStart: c.plan != nil && c.confirmed && (c.status == StatusIdle || c.status == StatusPaused),
		CanPause: c.status == StatusRunning,
		CanStop:  c.status == StatusRunning || c.status == StatusPaused,
		Resume:   c.status == StatusPaused,
	}
}

// Controls reports the availability of start, pause and stop.
func (c *Console) Controls() Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls()
}

// Start begins or resumes simulated execution. It requires a confirmed plan
// and an idle or paused simulator; otherwise nothing changes and
// ErrControlDisabled is returned.
func (c *Console) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.controls().CanStart {
		return goerr.Wrap(ErrControlDisabled, "cannot start execution",
			goerr.V("status", c.status),
			goerr.V("has_plan", c.plan != nil),
			goerr.V("confirmed", c.confirmed),
		)
	}

	c.releaseTicker()
	c.status = StatusRunning
	if c.progress == 0 {
		c.emit(EventSuccess, "Execution started")
	} else {
		c.emit(EventSuccess, "Execution resumed")
	}

	gen := c.tickerGen
	c.ticker = c.scheduler.Every(TickInterval, func() { c.tick(gen) })
	return nil
}

func (c *Console) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.tickerGen || c.ticker == nil {
		return
	}

	c.progress += ProgressStep
	if c.progress >= 100 {
		c.progress = 100
		c.releaseTicker()
		c.status = StatusIdle
		c.emit(EventSuccess, "Execution completed")
	}
}

// releaseTicker must be called with c.mu held.
func (c *Console) releaseTicker() {
	if c.ticker != nil {
		c.ticker.Cancel()
		c.ticker = nil
	}
	c.tickerGen++
}

// Pause suspends a running execution and keeps its progress.
func (c *Console) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusRunning {
		return goerr.Wrap(ErrControlDisabled, "cannot pause execution", goerr.V("status", c.status))
	}

	c.releaseTicker()
	c.status = StatusPaused
	c.emit(EventSystem, "Execution paused")
	return nil
}

// Stop aborts execution regardless of the current status. Progress is reset
// and the simulator returns to idle after StopResetDelay.
func (c *Console) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseTicker()
	c.progress = 0
	c.status = StatusStopped
	c.emit(EventError, "Execution stopped")

	c.releaseStopReset()
	gen := c.stopResetGen
	c.stopReset = c.scheduler.After(StopResetDelay, func() { c.finishStop(gen) })
}

func (c *Console) finishStop(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.stopResetGen {
		return
	}
	c.stopReset = nil
	c.status = StatusIdle
}

// releaseStopReset must be called with c.mu held.
func (c *Console) releaseStopReset() {
	if c.stopReset != nil {
		c.stopReset.Cancel()
		c.stopReset = nil
	}
	c.stopResetGen++
}

// Clear resets the form, the plan, the confirmation and the simulator. A plan
// request already in flight is not cancelled.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = TaskForm{}
	c.fieldErrors = FieldErrors{}
	c.plan = nil
	c.planText = ""
	c.planModel = ""
	c.confirmed = false

	c.releaseTicker()
	c.releaseStopReset()
	c.progress = 0
	c.status = StatusIdle

	c.emit(EventUser, "Form cleared")
}

// Plan returns the current plan and the model output it was parsed from. The
// plan is nil until one has been generated.
func (c *Console) Plan() (Plan, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan, c.planText
}

// Snapshot returns a copy of the current state. The plan is rendered in the
// selected view mode.
func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Form:        c.form,
		FieldErrors: copyFieldErrors(c.fieldErrors),
		Presets:     Presets(),
		Generating:  c.generating,
		HasPlan:     c.plan != nil,
		PlanView:    FormatPlan(c.plan, c.planText, c.viewMode),
		PlanModel:   c.planModel,
		ViewMode:    c.viewMode,
		Confirmed:   c.confirmed,
		Status:      c.status,
		Progress:    c.progress,
		Controls:    c.controls(),
		EventCount:  c.events.Len(),
	}
}

// Close releases all timers. The console must not be used afterwards.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseTicker()
	c.releaseStopReset()
}

func copyFieldErrors(errs FieldErrors) FieldErrors {
	out := make(FieldErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
