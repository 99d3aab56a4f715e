// Package botconsole implements a robot task console. An operator describes a
// task in a form, a generative text model proposes an execution plan, and the
// operator previews and confirms the plan before a simulated execution runs
// with start, pause and stop controls. Every state change is recorded in an
// event log.
//
// Console is the entry point. Plans are acquired through a Planner; the
// ModelPlanner implementation asks a Generator for text, trying each model in
// order until one succeeds. Provider Generators live under llm/.
package botconsole

//go:generate go tool moq -out mock/mock_gen.go -pkg mock . Generator Planner
