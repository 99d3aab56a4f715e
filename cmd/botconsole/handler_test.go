package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/botconsole"
	main "github.com/m-mizutani/botconsole/cmd/botconsole"
	"github.com/m-mizutani/botconsole/internal"
	"github.com/m-mizutani/botconsole/mock"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

const planJSON = `{"preExecutionChecks": ["Check gas"], "steps": [{"step": 1, "action": "Weld", "description": "Run the bead"}], "safetyConsiderations": ["Close the door"], "errorHandling": ["Stop on arc loss"], "successCriteria": ["Bead is continuous"]}`

type testEnv struct {
	handler http.Handler
	console *botconsole.Console
	sched   *mock.Scheduler
	planner *mock.PlannerMock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	planner := &mock.PlannerMock{
		GeneratePlanFunc: func(ctx context.Context, form botconsole.TaskForm) (*botconsole.PlanResult, error) {
			return &botconsole.PlanResult{Plan: botconsole.ParsePlan(planJSON), Text: planJSON, Model: "gemini-2.5-flash"}, nil
		},
	}
	sched := mock.NewScheduler()
	console := botconsole.New(planner,
		botconsole.WithScheduler(sched),
		botconsole.WithLogger(internal.TestLogger()),
	)
	t.Cleanup(console.Close)

	s := main.NewServer(main.WithConsole(console), main.WithLogger(internal.TestLogger()))
	return &testEnv{handler: s.Handler(), console: console, sched: sched, planner: planner}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) main.StateResponse {
	t.Helper()
	var resp main.StateResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	return resp
}

func (e *testEnv) fillForm(t *testing.T) {
	t.Helper()
	values := map[botconsole.Field]string{
		botconsole.FieldPreset:          "Weld a Part",
		botconsole.FieldTargetObject:    "steel bracket",
		botconsole.FieldTaskDescription: "weld the seam",
		botconsole.FieldExpectedOutcome: "continuous bead",
	}
	for field, value := range values {
		rec := e.do(t, http.MethodPut, "/api/form", map[string]string{"field": string(field), "value": value})
		gt.Equal(t, http.StatusOK, rec.Code)
	}
}

func (e *testEnv) confirmedPlan(t *testing.T) {
	t.Helper()
	e.fillForm(t)
	gt.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/plan", nil).Code)
	gt.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/plan/confirm", map[string]bool{"confirmed": true}).Code)
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/health", nil)

	gt.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Equal(t, "ok", resp["status"])
}

func TestHandleState(t *testing.T) {
	env := newTestEnv(t)

	t.Run("initial state", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/state", nil)
		gt.Equal(t, http.StatusOK, rec.Code)
		gt.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		resp := decodeState(t, rec)
		gt.Equal(t, botconsole.StatusIdle, resp.Status)
		gt.Equal(t, botconsole.NoPlanMessage, resp.PlanView)
		gt.Equal(t, 4, len(resp.Presets))
		gt.Equal(t, 1, len(resp.Events))
		gt.Equal(t, botconsole.ReadyMessage, resp.Events[0].Message)
		gt.Equal(t, 1, resp.EventCount)
	})

	t.Run("since skips seen events", func(t *testing.T) {
		env.console.Clear()
		resp := decodeState(t, env.do(t, http.MethodGet, "/api/state?since=1", nil))
		gt.Equal(t, 1, len(resp.Events))
		gt.Equal(t, "Form cleared", resp.Events[0].Message)
		gt.Equal(t, 2, resp.EventCount)
	})

	t.Run("invalid since", func(t *testing.T) {
		gt.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/state?since=abc", nil).Code)
		gt.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/state?since=-1", nil).Code)
	})
}

func TestHandleUpdateField(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/form", map[string]string{"field": "targetObject", "value": "bracket"})
	gt.Equal(t, http.StatusOK, rec.Code)
	gt.Equal(t, "bracket", decodeState(t, rec).Form.TargetObject)

	gt.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/form", map[string]string{"field": "speed", "value": "x"}).Code)

	req := httptest.NewRequest(http.MethodPut, "/api/form", strings.NewReader("{not json"))
	bad := httptest.NewRecorder()
	env.handler.ServeHTTP(bad, req)
	gt.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHandleGeneratePlan(t *testing.T) {
	t.Run("validation failure", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/plan", nil)
		gt.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp main.APIError
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.Equal(t, 4, len(resp.FieldErrors))
		gt.Equal(t, "Please select a preset", resp.FieldErrors[botconsole.FieldPreset])
		gt.Equal(t, 0, len(env.planner.GeneratePlanCalls()))
	})

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		env.fillForm(t)

		rec := env.do(t, http.MethodPost, "/api/plan", nil)
		gt.Equal(t, http.StatusOK, rec.Code)

		resp := decodeState(t, rec)
		gt.True(t, resp.HasPlan)
		gt.False(t, resp.Confirmed)
		gt.Equal(t, "gemini-2.5-flash", resp.PlanModel)
		gt.S(t, resp.PlanView).Contains("Step 1: Weld\n  Run the bead")
	})

	t.Run("provider failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.planner.GeneratePlanFunc = func(ctx context.Context, form botconsole.TaskForm) (*botconsole.PlanResult, error) {
			return nil, goerr.New("quota exceeded")
		}
		env.fillForm(t)

		rec := env.do(t, http.MethodPost, "/api/plan", nil)
		gt.Equal(t, http.StatusBadGateway, rec.Code)

		var resp main.APIError
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.Equal(t, "quota exceeded", resp.Error)

		events := env.console.Events().Events()
		gt.Equal(t, "Error: quota exceeded", events[len(events)-1].Message)
	})

	t.Run("request in flight", func(t *testing.T) {
		env := newTestEnv(t)
		entered := make(chan struct{})
		release := make(chan struct{})
		env.planner.GeneratePlanFunc = func(ctx context.Context, form botconsole.TaskForm) (*botconsole.PlanResult, error) {
			close(entered)
			<-release
			return &botconsole.PlanResult{Plan: botconsole.ParsePlan("ok"), Text: "ok"}, nil
		}
		env.fillForm(t)

		done := make(chan int)
		go func() {
			req := httptest.NewRequest(http.MethodPost, "/api/plan", nil)
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)
			done <- rec.Code
		}()

		<-entered
		gt.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/plan", nil).Code)
		close(release)
		gt.Equal(t, http.StatusOK, <-done)
	})
}

func TestHandleViewAndConfirm(t *testing.T) {
	env := newTestEnv(t)

	gt.Equal(t, http.StatusConflict, env.do(t, http.MethodPut, "/api/plan/confirm", map[string]bool{"confirmed": true}).Code)

	env.confirmedPlan(t)

	rec := env.do(t, http.MethodPut, "/api/plan/view", map[string]string{"mode": "json"})
	gt.Equal(t, http.StatusOK, rec.Code)
	resp := decodeState(t, rec)
	gt.Equal(t, botconsole.ViewModeJSON, resp.ViewMode)
	gt.True(t, resp.Confirmed)
	gt.True(t, strings.HasPrefix(resp.PlanView, "{\n  \"preExecutionChecks\""))

	gt.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/plan/view", map[string]string{"mode": "xml"}).Code)
}

func TestHandleExecution(t *testing.T) {
	t.Run("controls are guarded", func(t *testing.T) {
		env := newTestEnv(t)
		gt.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/execution/start", nil).Code)
		gt.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/execution/pause", nil).Code)
		gt.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/execution/stop", nil).Code)

		env.fillForm(t)
		gt.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/plan", nil).Code)
		gt.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/execution/start", nil).Code)
	})

	t.Run("start pause resume stop", func(t *testing.T) {
		env := newTestEnv(t)
		env.confirmedPlan(t)

		rec := env.do(t, http.MethodPost, "/api/execution/start", nil)
		gt.Equal(t, http.StatusOK, rec.Code)
		gt.Equal(t, botconsole.StatusRunning, decodeState(t, rec).Status)
		gt.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/execution/start", nil).Code)

		env.sched.Advance(5 * botconsole.TickInterval)

		rec = env.do(t, http.MethodPost, "/api/execution/pause", nil)
		gt.Equal(t, http.StatusOK, rec.Code)
		resp := decodeState(t, rec)
		gt.Equal(t, botconsole.StatusPaused, resp.Status)
		gt.Equal(t, 10, resp.Progress)
		gt.True(t, resp.Controls.Resume)

		rec = env.do(t, http.MethodPost, "/api/execution/start", nil)
		resp = decodeState(t, rec)
		gt.Equal(t, "Execution resumed", resp.Events[len(resp.Events)-1].Message)

		rec = env.do(t, http.MethodPost, "/api/execution/stop", nil)
		gt.Equal(t, http.StatusOK, rec.Code)
		resp = decodeState(t, rec)
		gt.Equal(t, botconsole.StatusStopped, resp.Status)
		gt.Equal(t, 0, resp.Progress)

		env.sched.Advance(botconsole.StopResetDelay)
		gt.Equal(t, botconsole.StatusIdle, decodeState(t, env.do(t, http.MethodGet, "/api/state", nil)).Status)
	})

	t.Run("clear resets everything", func(t *testing.T) {
		env := newTestEnv(t)
		env.confirmedPlan(t)
		gt.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/execution/start", nil).Code)
		env.sched.Advance(3 * botconsole.TickInterval)

		rec := env.do(t, http.MethodPost, "/api/form/clear", nil)
		gt.Equal(t, http.StatusOK, rec.Code)
		resp := decodeState(t, rec)
		gt.Equal(t, botconsole.TaskForm{}, resp.Form)
		gt.False(t, resp.HasPlan)
		gt.False(t, resp.Confirmed)
		gt.Equal(t, 0, resp.Progress)
		gt.Equal(t, botconsole.StatusIdle, resp.Status)
	})
}

func TestSPAHandler(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/some/client/route"} {
		rec := env.do(t, http.MethodGet, path, nil)
		gt.Equal(t, http.StatusOK, rec.Code)
		gt.S(t, rec.Body.String()).Contains("Robot Task Console")
	}

	rec := env.do(t, http.MethodGet, "/app.js", nil)
	gt.Equal(t, http.StatusOK, rec.Code)
	gt.S(t, rec.Body.String()).Contains("/api/state")
}

func TestSPAHidesPlanControlsUntilPlanExists(t *testing.T) {
	env := newTestEnv(t)

	page := env.do(t, http.MethodGet, "/", nil).Body.String()
	gt.S(t, page).Contains(`id="view-toggle" role="group" aria-label="Plan view" hidden`)
	gt.S(t, page).Contains(`id="confirm-row" hidden`)

	script := env.do(t, http.MethodGet, "/app.js", nil).Body.String()
	gt.S(t, script).Contains(`$("view-toggle").hidden = !state.hasPlan;`)
	gt.S(t, script).Contains(`$("confirm-row").hidden = !state.hasPlan;`)
	gt.S(t, script).Contains("if (refreshing) {")
}
