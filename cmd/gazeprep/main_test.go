package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/config"
	"github.com/scaffolding-of-cognition-team/icatcher-plus/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
annotations_dir = %q
videos_dir = %q
output_dir = %q
log_dir = %q

[selection]
completeness_threshold = 5

[prep]
seed = 1

[logging]
format = "json"
level = "error"
`,
		filepath.Join(base, "annotations"),
		filepath.Join(base, "videos"),
		filepath.Join(base, "prepared"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func TestCLIRunAndReport(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCoderFile(t, env.cfg, "session01", "anna", 10)
	testsupport.WriteCoderFile(t, env.cfg, "session01", "bella", 10)
	testsupport.WriteVideo(t, env.cfg, "session01", "a.mp4")

	out, _, err := runCLI(t, []string{"run", "session"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "session01")
	requireContains(t, out, "done")
	// Footer cells render upper-cased under the rounded table style.
	requireContains(t, out, "1 PROCESSED")

	csvPath := filepath.Join(env.cfg.CodingDir(config.RankFirst), "session01.csv")
	if _, err := os.Stat(csvPath); err != nil {
		t.Fatalf("missing first-pass labels: %v", err)
	}

	out, _, err = runCLI(t, []string{"report"}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "session01")
	requireContains(t, out, "1 processed")
}

func TestCLIRunReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	path := testsupport.WriteCoderFile(t, env.cfg, "session01", "anna", 10)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteVideo(t, env.cfg, "session01", "a.mp4")

	out, _, err := runCLI(t, []string{"run", "session"}, env.configPath)
	if err == nil {
		t.Fatalf("run with broken annotations should fail, got output %q", out)
	}
	requireContains(t, err.Error(), "1 recording(s) failed")
}

func TestCLIConvert(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteCoderFile(t, env.cfg, "session01", "anna", 3, "a", "d", "s")
	dst := filepath.Join(env.baseDir, "out.csv")

	out, _, err := runCLI(t, []string{"convert", src, dst}, "")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Wrote 3 labels")

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "0,left\n1,right\n2,center\n"
	if string(data) != want {
		t.Fatalf("labels = %q, want %q", data, want)
	}
}

func TestCLIConvertEnforcesExpectedFrames(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteCoderFile(t, env.cfg, "session01", "anna", 3)
	dst := filepath.Join(env.baseDir, "out.csv")

	_, _, err := runCLI(t, []string{"convert", "--expected-frames", "10", src, dst}, "")
	if err == nil {
		t.Fatal("expected incomplete coder file to be rejected")
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatal("rejected conversion must not write output")
	}
}

func TestCLIConfigInitAndShow(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("second init without --overwrite should fail")
	}

	env := setupCLITestEnv(t)
	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "annotations_dir")
	requireContains(t, out, filepath.Join(env.baseDir, "videos"))
}
