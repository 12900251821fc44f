//go:build stave

package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary      = "bin/hbslint"
	mainPackage = "./cmd/hbslint"
	smokeDir    = "testdata/smoke"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"s":   Smoke,
	"fmt": Lint.Fmt,
}

// Namespace types group related targets.
type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

// Build compiles hbslint with version info when sources changed.
// The tree-sitter grammars are C, so cgo must be available.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building hbslint...")
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"},
		"go", "build", "-ldflags", ldflags(), "-o", binary, mainPackage)
}

// Install installs hbslint to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing hbslint...")
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"},
		"go", "install", "-ldflags", ldflags(), mainPackage)
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Smoke)
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Smoke lints testdata/smoke with every output format. Findings are
// expected; any other exit status fails the target.
func Smoke() error {
	st.Deps(Build)
	for _, format := range []string{"text", "json", "sarif", "checkstyle", "summary"} {
		fmt.Printf("  %s\n", format)
		_, err := sh.Exec(nil, io.Discard, os.Stderr, binary, "lint", "--format", format, "--related", smokeDir)
		if code := sh.ExitStatus(err); code > 2 {
			return fmt.Errorf("smoke %s: exit %d: %w", format, code, err)
		}
	}
	return nil
}

// Docs verifies that every registered rule ships documentation.
func Docs() error {
	st.Deps(Build)
	out, err := sh.Output(binary, "rules", "--format", "json")
	if err != nil {
		return fmt.Errorf("list rules: %w", err)
	}

	var rules []struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(strings.NewReader(out)).Decode(&rules); err != nil {
		return fmt.Errorf("decode rules: %w", err)
	}

	var missing []string
	for _, rule := range rules {
		if rule.Summary == "" {
			missing = append(missing, rule.ID)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("rules without documentation: %s", strings.Join(missing, ", "))
	}
	fmt.Printf("%d rule(s) documented\n", len(rules))
	return nil
}

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	return runTests("pkgname-and-test-fails")
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	return runTests("standard-verbose")
}

// Coverage writes coverage.html from the last test run.
func (Test) Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", "cmd", "internal", "pkg", "stavefile.go")
}

// FmtCheck verifies code formatting without modifying files.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg", "stavefile.go")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// Gate runs every check CI runs, in order.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.CI,
		Build,
		Test.Default,
		Smoke,
		Docs,
		CI.ModTidy,
	)
	fmt.Println("\u2713 CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go.mod or go.sum changed after 'go mod tidy'; commit the result")
	}
	return nil
}

func runTests(format string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, "go",
		"tool", "gotestsum",
		"-f", format,
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

func readModFiles() (string, error) {
	var buf strings.Builder
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		buf.Write(data)
	}
	return buf.String(), nil
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
