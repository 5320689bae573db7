package discovery

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/specvital/agent-coverage/internal/adapter/mapping"
	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

const (
	DefaultPytestBinary = "pytest"

	pytestTestsFailed      = 1
	pytestInterrupted      = 2
	pytestNoTestsCollected = 5

	maxStderrBytes = 64 * 1024
)

// PytestDiscoverer implements coverage.Discoverer by running pytest in collect-only
// mode, which expands parameterized cases into their individual ids.
type PytestDiscoverer struct {
	binary string
}

// NewPytestDiscoverer creates a PytestDiscoverer. An empty binary means "pytest" from PATH.
func NewPytestDiscoverer(binary string) *PytestDiscoverer {
	if binary == "" {
		binary = DefaultPytestBinary
	}
	return &PytestDiscoverer{binary: binary}
}

// Discover runs "pytest --collect-only -q" with the parent of root as rootdir so
// node ids keep the tests directory name, e.g. "tests/monitors/cpu/cpu_test.py::test_cpu".
//
// Modules that fail to import do not abort discovery: pytest still prints the ids it
// collected and exits 1 or 2, and those ids are returned. Discovery fails only when
// nothing was collected or pytest reports a usage or internal error.
func (d *PytestDiscoverer) Discover(ctx context.Context, root string) ([]coverage.TestCase, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve tests dir %q: %w", root, err)
	}
	rootDir := filepath.Dir(abs)

	cmd := exec.CommandContext(ctx, d.binary, "--collect-only", "-q", "--rootdir", rootDir, abs)
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "PYTEST_ADDOPTS=", "PYTHONDONTWRITEBYTECODE=1")

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pytest stdout: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("pytest stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("pytest collect %s: %w", abs, err)
	}

	var (
		out    collectOutput
		stderr bytes.Buffer
		g      errgroup.Group
	)
	g.Go(func() error {
		var err error
		out, err = parseCollectOutput(stdoutPipe)
		if err != nil {
			_, _ = io.Copy(io.Discard, stdoutPipe)
		}
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, io.LimitReader(stderrPipe, maxStderrBytes))
		_, _ = io.Copy(io.Discard, stderrPipe)
		return err
	})
	readErr := g.Wait()
	runErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("pytest collect %s: %w", abs, ctx.Err())
	}
	if readErr != nil {
		return nil, fmt.Errorf("pytest collect %s: %w", abs, readErr)
	}
	if runErr == nil {
		return out.cases, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return nil, fmt.Errorf("pytest collect %s: %w", abs, runErr)
	}

	switch exitErr.ExitCode() {
	case pytestNoTestsCollected:
		return out.cases, nil
	case pytestTestsFailed, pytestInterrupted:
		if len(out.cases) == 0 {
			break
		}
		slog.WarnContext(ctx, "pytest reported collection errors, using partial collection",
			"exit_code", exitErr.ExitCode(),
			"collected", len(out.cases),
			"errors", out.errors,
			"stderr", strings.TrimSpace(stderr.String()),
		)
		return out.cases, nil
	}

	return nil, fmt.Errorf("pytest collect %s: %s: %w",
		abs, strings.TrimSpace(stderr.String()+"\n"+strings.Join(out.errors, "\n")), runErr)
}

type collectOutput struct {
	cases  []coverage.TestCase
	errors []string
}

// ParseNodeIDs reads pytest collect-only output and returns one case per node id.
// Lines that are not node ids, such as the summary, are skipped.
func ParseNodeIDs(r io.Reader) ([]coverage.TestCase, error) {
	out, err := parseCollectOutput(r)
	if err != nil {
		return nil, err
	}
	return out.cases, nil
}

func parseCollectOutput(r io.Reader) (collectOutput, error) {
	out := collectOutput{cases: []coverage.TestCase{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Short summary lines look like "ERROR tests/x_test.py - ImportError: ...".
		if strings.HasPrefix(line, "ERROR ") {
			out.errors = append(out.errors, strings.TrimPrefix(line, "ERROR "))
			continue
		}
		if tc, ok := ParseNodeID(line); ok {
			out.cases = append(out.cases, tc)
		}
	}
	if err := scanner.Err(); err != nil {
		return collectOutput{}, fmt.Errorf("read pytest output: %w", err)
	}
	return out, nil
}

// ParseNodeID splits "path/x_test.py::Class::test_name[params]" into a test case.
// Parameters may contain "::", so only the part before the first "[" is split.
func ParseNodeID(nodeID string) (coverage.TestCase, bool) {
	base, params, hasParams := strings.Cut(nodeID, "[")

	segments := strings.Split(base, "::")
	if len(segments) < 2 {
		return coverage.TestCase{}, false
	}

	file := strings.ReplaceAll(segments[0], "\\", "/")
	if path.Ext(file) != ".py" {
		return coverage.TestCase{}, false
	}

	name := segments[len(segments)-1]
	if name == "" {
		return coverage.TestCase{}, false
	}
	if hasParams {
		name += "[" + params
	}

	return coverage.TestCase{
		Name:     name,
		Module:   mapping.ModuleIdentifier(file),
		Location: file,
	}, true
}
