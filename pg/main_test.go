package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestMain triggers our helper process mode. When the environment
// variable GO_HELPER_PROCESS is set, main() is called (simulating our CLI).
func TestMain(m *testing.M) {
	if os.Getenv("GO_HELPER_PROCESS") == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runCLI runs the current test binary as a helper process running the CLI.
// It passes along the provided arguments and any extra environment variables.
func runCLI(args []string, extraEnv ...string) (string, error) {
	cmd := exec.Command(os.Args[0], args...)
	cmd.Env = append(os.Environ(), "GO_HELPER_PROCESS=1")
	cmd.Env = append(cmd.Env, extraEnv...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// TestCLIHelp checks that --help prints the usage info.
func TestCLIHelp(t *testing.T) {
	out, _ := runCLI([]string{"--help"})
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected help usage info, got:\n%s", out)
	}
}

// TestCLIVersion checks that --version prints the version string.
func TestCLIVersion(t *testing.T) {
	out, _ := runCLI([]string{"--version"})
	if !strings.Contains(out, "tablescout-pg version:") {
		t.Errorf("expected version info, got:\n%s", out)
	}
}

// TestCLIUnknownCommand checks that an unknown command produces an error.
func TestCLIUnknownCommand(t *testing.T) {
	out, err := runCLI([]string{"foobar"})
	if err == nil || !strings.Contains(out, "foobar") {
		t.Errorf("expected unknown command error, got:\n%s", out)
	}
}

// TestCLIMissingConn verifies that tables without any connection settings fails.
func TestCLIMissingConn(t *testing.T) {
	out, _ := runCLI([]string{"--env-file", "", "tables"},
		"DATABASE_URL=", "DB_HOST=", "DB_NAME=")
	if !strings.Contains(out, "connection must be provided") {
		t.Errorf("expected connection URL missing error, got:\n%s", out)
	}
}

// TestCLIConfigLoadError checks that a missing config file is reported.
func TestCLIConfigLoadError(t *testing.T) {
	out, _ := runCLI([]string{"--conn", "dummy", "--config", "nonexistent.json", "tables"})
	if !strings.Contains(out, "loading config file") {
		t.Errorf("expected config file loading error, got:\n%s", out)
	}
}

// TestCLINearbyRequiresCenter checks that --lat and --lng are mandatory.
func TestCLINearbyRequiresCenter(t *testing.T) {
	out, err := runCLI([]string{"--conn", "dummy", "nearby", "stores"})
	if err == nil || !strings.Contains(out, "--lat") {
		t.Errorf("expected missing flag error, got:\n%s", out)
	}
}

// TestCLIUnreachableDatabase checks the hint printed when the server is down.
func TestCLIUnreachableDatabase(t *testing.T) {
	out, err := runCLI([]string{"--conn", "postgres://nobody@127.0.0.1:1/none?connect_timeout=2", "nearby", "stores", "--lat", "0", "--lng", "0"})
	if err == nil || !strings.Contains(out, "Please ensure that the database server is running") {
		t.Errorf("expected source unavailable hint, got:\n%s", out)
	}
}
