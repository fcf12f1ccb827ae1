package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kzone/internal/cli"
	"kzone/internal/commands"
	"kzone/internal/config"
	"kzone/internal/exitcode"
	"kzone/internal/service"
	"kzone/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// newDispatcher isolates the dispatcher from the real environment.
func newDispatcher(t *testing.T, svc *testutil.FakeService, env map[string]string) *cli.Dispatcher {
	t.Helper()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	vals := map[string]string{"XDG_CONFIG_HOME": t.TempDir()}
	for k, v := range env {
		vals[k] = v
	}
	d.Getenv = func(key string) string { return vals[key] }
	return d
}

func envelope(t *testing.T, out string) (kind, message string) {
	t.Helper()
	var env struct {
		Error   bool   `json:"error"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("expected error envelope, got %q", out)
	}
	if !env.Error {
		t.Errorf("expected error=true, got %s", out)
	}
	return env.Kind, env.Message
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	kind, msg := envelope(t, stdout.String())
	if kind != "validation" || msg != "unknown command: unknowncmd" {
		t.Errorf("unexpected envelope %s", stdout.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--debug"}, &stdout, &stderr)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if _, msg := envelope(t, stdout.String()); msg != "unknown command: --debug" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	for _, args := range [][]string{nil, {"help"}, {"-h"}, {"--help"}} {
		svc := testutil.NewFakeService()
		dispatcher := newDispatcher(t, svc, nil)

		var stdout, stderr bytes.Buffer
		code := dispatcher.Run(context.Background(), args, &stdout, &stderr)

		if code != exitcode.Success {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.Success, code)
		}
		if stderr.String() != "" {
			t.Errorf("%v: expected no stderr, got %q", args, stderr.String())
		}
		if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
			t.Errorf("%v: expected help output to contain 'Usage:'", args)
		}
	}
}

func TestDispatcher_CommandHelpFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"move-card", "-h"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout.String(), "Usage: kzone move-card") {
		t.Errorf("expected command usage, got %q", stdout.String())
	}
	if len(svc.Calls()) != 0 {
		t.Error("expected no requests")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "kzone 0.1.0\n" {
		t.Errorf("expected 'kzone 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	kind, msg := envelope(t, stdout.String())
	if kind != "validation" || msg != "unknown flag: -unknown" {
		t.Errorf("unexpected envelope %s", stdout.String())
	}
}

func TestDispatcher_InvalidTimeout(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	for _, args := range [][]string{{"boards", "--timeout", "0s"}, {"boards", "--timeout", "soon"}} {
		var stdout, stderr bytes.Buffer
		code := dispatcher.Run(context.Background(), args, &stdout, &stderr)
		if code != exitcode.Failure {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.Failure, code)
		}
		if kind, _ := envelope(t, stdout.String()); kind != "validation" {
			t.Errorf("%v: expected validation error, got %s", args, kind)
		}
	}
	if len(svc.Calls()) != 0 {
		t.Error("expected no requests")
	}
}

func TestDispatcher_BoardFromEnvironment(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddBoard("envboard", "Env", false)
	dispatcher := newDispatcher(t, svc, map[string]string{config.EnvBoardID: "envboard"})

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"board"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stdout.String())
	}
	if !strings.Contains(stdout.String(), `"envboard"`) {
		t.Errorf("expected env board, got %s", stdout.String())
	}
}

func TestDispatcher_BoardFlagOverridesEnvironment(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddBoard("envboard", "Env", false)
	svc.AddBoard("flagboard", "Flag", false)
	dispatcher := newDispatcher(t, svc, map[string]string{config.EnvBoardID: "envboard"})

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"board", "--board", "flagboard"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stdout.String())
	}
	if !strings.Contains(stdout.String(), `"flagboard"`) || strings.Contains(stdout.String(), `"envboard"`) {
		t.Errorf("expected flag board only, got %s", stdout.String())
	}
}

func TestDispatcher_MissingBoard(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"wip-check"}, &stdout, &stderr)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	kind, msg := envelope(t, stdout.String())
	if kind != "config" || !strings.Contains(msg, "--board") || !strings.Contains(msg, config.EnvBoardID) {
		t.Errorf("unexpected envelope %s", stdout.String())
	}
}

func TestDispatcher_ConfigDirEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.EnvFile), []byte("KANBANZONE_BOARD_ID=fileboard\n"), 0600); err != nil {
		t.Fatal(err)
	}
	svc := testutil.NewFakeService()
	svc.AddBoard("fileboard", "File", false)
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"board", "--config", dir}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stdout.String())
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, service.ConfigError(errors.New("KANBANZONE_API_KEY environment variable is not set"))
	})
	dispatcher.Getenv = func(string) string { return "" }

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"boards", "--config", t.TempDir()}, &stdout, &stderr)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	kind, msg := envelope(t, stdout.String())
	if kind != "config" || !strings.Contains(msg, "KANBANZONE_API_KEY") {
		t.Errorf("unexpected envelope %s", stdout.String())
	}

	// Commands that do not talk to the API never build a service.
	stdout.Reset()
	if code := dispatcher.Run(context.Background(), []string{"version", "--config", t.TempDir()}, &stdout, &stderr); code != exitcode.Success {
		t.Errorf("expected version to succeed without a key, got %d", code)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"boards", "--debug"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr.String(), "command=boards") {
		t.Errorf("expected debug record on stderr, got %q", stderr.String())
	}
	var v map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &v); err != nil {
		t.Errorf("stdout must stay pure JSON: %v", err)
	}

	stderr.Reset()
	dispatcher.Run(context.Background(), []string{"boards"}, &stdout, &stderr)
	if stderr.Len() != 0 {
		t.Errorf("expected no stderr without --debug, got %q", stderr.String())
	}
}

func TestDispatcher_CreateCardEndToEnd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Response = json.RawMessage(`{"cardsAdded":1,"cards":[{"number":7,"title":"Task A"}],"errors":{"error":false,"errors":[]}}`)
	dispatcher := newDispatcher(t, svc, map[string]string{config.EnvBoardID: "def"})

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"create-card", "--title", "Task A", "--column-id", "col1"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stdout.String())
	}
	body, err := svc.LastBody()
	if err != nil {
		t.Fatal(err)
	}
	if body != `{"board":"def","title":"Task A","columnId":"col1","addToTop":false}` {
		t.Errorf("unexpected body %s", body)
	}
	if !strings.Contains(stdout.String(), `"cardsAdded": 1`) {
		t.Errorf("expected server response printed, got %s", stdout.String())
	}
}

func TestDispatcher_MoveCardMissingColumn(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := newDispatcher(t, svc, map[string]string{config.EnvBoardID: "def"})

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"move-card", "--id", "12"}, &stdout, &stderr)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if kind, _ := envelope(t, stdout.String()); kind != "validation" {
		t.Errorf("expected validation error, got %s", kind)
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no requests, got %d", len(svc.Calls()))
	}
}
