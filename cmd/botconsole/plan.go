package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func planCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "task",
			Aliases: []string{"t"},
			Usage:   "YAML file describing the task form",
		},
		&cli.StringFlag{Name: "preset", Usage: "Task preset; overrides the task file"},
		&cli.StringFlag{Name: "target", Usage: "Target object; overrides the task file"},
		&cli.StringFlag{Name: "description", Usage: "Task description; overrides the task file"},
		&cli.StringFlag{Name: "outcome", Usage: "Expected outcome; overrides the task file"},
		&cli.StringFlag{Name: "exceptions", Usage: "Exception scenarios; overrides the task file"},
		&cli.StringFlag{
			Name:    "format",
			Value:   string(botconsole.ViewModeText),
			Sources: cli.EnvVars("BOTCONSOLE_PLAN_FORMAT"),
			Usage:   "Plan output format (text, json)",
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Sources: cli.EnvVars("NO_COLOR"),
			Usage:   "Disable coloured event output",
		},
	}

	return &cli.Command{
		Name:  "plan",
		Usage: "Generate a plan for a task and print it",
		Flags: append(flags, providerFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("no-color") {
				color.NoColor = true
			}

			var form botconsole.TaskForm
			if path := cmd.String("task"); path != "" {
				var err error
				if form, err = loadTaskForm(path); err != nil {
					return err
				}
			}
			overrideForm(&form, map[botconsole.Field]string{
				botconsole.FieldPreset:             cmd.String("preset"),
				botconsole.FieldTargetObject:       cmd.String("target"),
				botconsole.FieldTaskDescription:    cmd.String("description"),
				botconsole.FieldExpectedOutcome:    cmd.String("outcome"),
				botconsole.FieldExceptionScenarios: cmd.String("exceptions"),
			})

			mode := botconsole.ViewMode(cmd.String("format"))
			if err := mode.Validate(); err != nil {
				return err
			}

			planner, err := newPlanner(ctx, providerConfigFrom(cmd))
			if err != nil {
				return err
			}

			return runPlan(ctx, cmd.Root().Writer, planner, form, mode)
		},
	}
}

// loadTaskForm reads a task form from a YAML file. Unknown keys are rejected.
func loadTaskForm(path string) (botconsole.TaskForm, error) {
	var form botconsole.TaskForm

	f, err := os.Open(path)
	if err != nil {
		return form, goerr.Wrap(err, "failed to open task file", goerr.V("path", path))
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&form); err != nil {
		return form, goerr.Wrap(err, "failed to parse task file", goerr.V("path", path))
	}
	return form, nil
}

// overrideForm applies the non-empty values to form.
func overrideForm(form *botconsole.TaskForm, values map[botconsole.Field]string) {
	for field, value := range values {
		if value != "" {
			// Every key is a known field, so Set cannot fail.
			_ = form.Set(field, value)
		}
	}
}

// runPlan drives a console through one plan request and prints its events
// followed by the plan rendering.
func runPlan(ctx context.Context, w io.Writer, planner botconsole.Planner, form botconsole.TaskForm, mode botconsole.ViewMode) error {
	if w == nil {
		w = os.Stdout
	}

	console := botconsole.New(planner, botconsole.WithLogger(slog.Default()))
	defer console.Close()

	for field, value := range formFields(form) {
		if err := console.UpdateField(field, value); err != nil {
			return err
		}
	}
	if err := console.SetViewMode(mode); err != nil {
		return err
	}

	genErr := console.GeneratePlan(ctx)

	theme := newEventTheme()
	for _, e := range console.Events().Events() {
		fmt.Fprintln(w, theme.format(e))
	}

	if genErr != nil {
		fieldErrors := console.Snapshot().FieldErrors
		for _, field := range slices.Sorted(maps.Keys(fieldErrors)) {
			fmt.Fprintf(w, "  %s: %s\n", field, fieldErrors[field])
		}
		return genErr
	}

	snapshot := console.Snapshot()
	fmt.Fprintln(w)
	fmt.Fprintln(w, snapshot.PlanView)
	return nil
}

func formFields(form botconsole.TaskForm) map[botconsole.Field]string {
	return map[botconsole.Field]string{
		botconsole.FieldPreset:             string(form.Preset),
		botconsole.FieldTargetObject:       form.TargetObject,
		botconsole.FieldTaskDescription:    form.TaskDescription,
		botconsole.FieldExpectedOutcome:    form.ExpectedOutcome,
		botconsole.FieldExceptionScenarios: form.ExceptionScenarios,
	}
}

type eventTheme struct {
	timestamp func(a ...any) string
	byType    map[botconsole.EventType]func(a ...any) string
}

func newEventTheme() *eventTheme {
	return &eventTheme{
		timestamp: color.New(color.FgHiBlack).SprintFunc(),
		byType: map[botconsole.EventType]func(a ...any) string{
			botconsole.EventSystem:  color.New(color.FgCyan).SprintFunc(),
			botconsole.EventUser:    color.New(color.FgWhite).SprintFunc(),
			botconsole.EventError:   color.New(color.FgRed).SprintFunc(),
			botconsole.EventSuccess: color.New(color.FgGreen).SprintFunc(),
		},
	}
}

func (t *eventTheme) format(e botconsole.Event) string {
	paint, ok := t.byType[e.Type]
	if !ok {
		paint = fmt.Sprint
	}
	return fmt.Sprintf("%s %s %s", t.timestamp(e.Timestamp), paint(fmt.Sprintf("%-7s", e.Type)), paint(e.Message))
}
