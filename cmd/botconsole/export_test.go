package main

import (
	"net/http"
)

// StateResponse is exported for testing.
type StateResponse = stateResponse

// APIError is exported for testing.
type APIError = apiError

// Exported constructors for testing
var NewServer = newServer

// Exported server options for testing
var WithConsole = withConsole
var WithAddr = withAddr
var WithNoBrowser = withNoBrowser
var WithLogger = withLogger

var (
	LoadTaskForm = loadTaskForm
	OverrideForm = overrideForm
	RunPlan      = runPlan
	NewLogger    = newLogger
	NewPlanner   = newPlanner
)

// ProviderConfig is exported for testing.
type ProviderConfig struct {
	Name    string
	APIKey  string
	Models  []string
	BaseURL string
}

func (c ProviderConfig) Internal() providerConfig {
	return providerConfig{
		name:    c.Name,
		apiKey:  c.APIKey,
		models:  c.Models,
		baseURL: c.BaseURL,
	}
}

// Handler returns the server's HTTP handler for testing.
func (s *server) Handler() http.Handler {
	return s.handler()
}
