package main

import (
	"strings"
	"testing"

	"github.com/manash/babygen/internal/gemini"
	"github.com/manash/babygen/internal/store"
)

func testApp() *App {
	return &App{
		GetEnv:    func(string) string { return "" },
		NewStore:  store.New,
		NewClient: gemini.New,
	}
}

func resetFlags() {
	flagPort = ""
	flagDBPath = "database.sqlite"
	flagAPIKey = ""
	flagModel = ""
	flagBaseURL = ""
	flagStaticDir = "web/public"
}

func TestNewRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd(testApp())

	for _, name := range []string{"port", "db", "api-key", "model", "base-url", "static"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
	if cmd.Use != "babygen" {
		t.Errorf("Use = %q", cmd.Use)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	resetFlags()
	cmd := newRootCmd(testApp())
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute() error = nil, want API key error")
	}
	if !strings.Contains(err.Error(), "API key required") {
		t.Errorf("Execute() error = %v, want API key message", err)
	}
}

func TestRun_APIKeyFromEnv(t *testing.T) {
	resetFlags()
	app := testApp()
	app.GetEnv = func(key string) string {
		if key == "GEMINI_API_KEY" {
			return "env-key"
		}
		return ""
	}
	cmd := newRootCmd(app)
	// A key from the environment gets past validation; fail fast afterwards by
	// pointing the store at an unusable path. Set after newRootCmd, whose flag
	// registration resets the variable to its default.
	flagDBPath = "/dev/null/nope/database.sqlite"
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute() error = nil, want store error")
	}
	if strings.Contains(err.Error(), "API key required") {
		t.Errorf("Execute() error = %v, key from env was not picked up", err)
	}
	if !strings.Contains(err.Error(), "failed to initialize store") {
		t.Errorf("Execute() error = %v, want store initialization failure", err)
	}
}
