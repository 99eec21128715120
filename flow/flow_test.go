package flow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/fv6502/config"
	"github.com/ezrec/fv6502/gen"
	"github.com/ezrec/fv6502/sby"
)

// fakeGen produces deterministic il and counts invocations per name.
type fakeGen struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

func (g *fakeGen) Generate(ctx context.Context, name string) (il []byte, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = map[string]int{}
	}
	g.calls[name]++
	if err = g.fail[name]; err != nil {
		return nil, err
	}
	return []byte("# il for " + name + "\n"), nil
}

func (g *fakeGen) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

// passBody is a fake checker that creates the sentinel for any job,
// counting runs in a side file.
const passBody = `job="$2"
dir=$(dirname "$job")
name=$(basename "$job" .sby)
echo run >> "$dir/checker.count"
mkdir -p "$dir/${name}_bmc"
: > "$dir/${name}_bmc/PASS"
exit 0
`

func fakeChecker(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-sby")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755)
	assert.NoError(t, err)
	return path
}

func checkerRuns(t *testing.T, outDir string) int {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, "checker.count"))
	if err != nil {
		return 0
	}
	return strings.Count(string(data), "run")
}

func newTestFlow(t *testing.T, checkerBody string) (fl *Flow, fgen *fakeGen, report *bytes.Buffer) {
	t.Helper()

	tmp := t.TempDir()
	fgen = &fakeGen{}
	report = &bytes.Buffer{}

	fl = &Flow{
		ScriptDir: filepath.Join(tmp, "formal"),
		Generator: fgen,
		Runner: &sby.Runner{
			Command: fakeChecker(t, checkerBody),
			Stderr:  io.Discard,
		},
		Template: []byte(sby.DefaultTemplate),
		Layout:   Layout{OutputDir: filepath.Join(tmp, "formal", "sby")},
		Report:   report,
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 34, 56, 0, time.UTC)
		},
	}
	err := os.MkdirAll(fl.ScriptDir, 0755)
	assert.NoError(t, err)
	return
}

func reportLines(report *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(report.String(), "\n"), "\n")
}

func TestFlow_Run_Verified(t *testing.T) {
	assert := assert.New(t)

	fl, fgen, report := newTestFlow(t, passBody)

	totals, err := fl.Run(context.Background(), []string{"add8"})
	assert.NoError(err)
	assert.Equal(Totals{Pass: 1}, totals)

	// One success line, timestamped, nothing else.
	lines := reportLines(report)
	assert.Len(lines, 1)
	assert.Equal("12:34:56 Verified instruction 'add8'", lines[0])

	// The filesystem contract: il, job, and sentinel in place.
	il, err := os.ReadFile(fl.Layout.Il("add8"))
	assert.NoError(err)
	assert.Equal("# il for add8\n", string(il))

	job, err := os.ReadFile(fl.Layout.Job("add8"))
	assert.NoError(err)
	absDir, err := fl.Layout.AbsInsnDir("add8")
	assert.NoError(err)
	assert.Contains(string(job), "read_ilang add8.il")
	assert.Contains(string(job), absDir+".il")
	assert.NotContains(string(job), sby.TOKEN_REL_FILE)

	assert.FileExists(fl.Layout.Sentinel("add8"))
	assert.Equal(1, fgen.count("add8"))
}

func TestFlow_Run_Failure(t *testing.T) {
	assert := assert.New(t)

	// sub8 finds a counterexample; add8 still verifies.
	fl, _, report := newTestFlow(t, `case "$2" in
*sub8*) exit 1 ;;
esac
`+passBody)

	totals, err := fl.Run(context.Background(), []string{"add8", "sub8"})
	assert.NoError(err)
	assert.Equal(Totals{Pass: 1, Fail: 1}, totals)

	lines := reportLines(report)
	assert.Len(lines, 2)

	var verified, failed int
	for _, line := range lines {
		if strings.Contains(line, "Verified instruction 'add8'") {
			verified++
		}
		if strings.Contains(line, "Formal verification FAILED for instruction 'sub8'") {
			failed++
		}
	}
	assert.Equal(1, verified)
	assert.Equal(1, failed)
	assert.NoFileExists(fl.Layout.Sentinel("sub8"))
}

func TestFlow_Run_GeneratorFailure(t *testing.T) {
	assert := assert.New(t)

	fl, fgen, report := newTestFlow(t, passBody)
	fgen.fail = map[string]error{"bad8": errors.New("undecodable opcode")}

	totals, err := fl.Run(context.Background(), []string{"bad8"})
	assert.NoError(err)
	assert.Equal(Totals{Fail: 1}, totals)

	lines := reportLines(report)
	assert.Len(lines, 1)
	assert.Contains(lines[0], "Formal verification FAILED for instruction 'bad8'")
	assert.Contains(lines[0], "undecodable opcode")

	// No partial artifact survives a failed generation.
	assert.NoFileExists(fl.Layout.Il("bad8"))
	assert.Equal(0, checkerRuns(t, fl.Layout.OutputDir))
}

func TestFlow_Run_Inconsistent(t *testing.T) {
	assert := assert.New(t)

	// Clean checker exit without a sentinel is a distinct warning.
	fl, _, report := newTestFlow(t, "exit 0\n")

	totals, err := fl.Run(context.Background(), []string{"add8"})
	assert.NoError(err)
	assert.Equal(Totals{Inconsistent: 1}, totals)

	lines := reportLines(report)
	assert.Len(lines, 1)
	assert.Contains(lines[0], "WARNING")
	assert.Contains(lines[0], "'add8'")
	assert.NotContains(lines[0], "Verified instruction")
}

func TestFlow_Run_Incremental(t *testing.T) {
	assert := assert.New(t)

	fl, fgen, report := newTestFlow(t, passBody)

	script := filepath.Join(fl.ScriptDir, gen.ScriptName("add8"))
	err := os.WriteFile(script, []byte("# placeholder\n"), 0644)
	assert.NoError(err)

	// First run generates and verifies.
	_, err = fl.Run(context.Background(), []string{"add8"})
	assert.NoError(err)
	assert.Equal(1, fgen.count("add8"))
	assert.Equal(1, checkerRuns(t, fl.Layout.OutputDir))

	// Nothing changed: artifacts are reused, the checker stays idle,
	// but the instruction still reports its line.
	_, err = fl.Run(context.Background(), []string{"add8"})
	assert.NoError(err)
	assert.Equal(1, fgen.count("add8"))
	assert.Equal(1, checkerRuns(t, fl.Layout.OutputDir))

	lines := reportLines(report)
	assert.Len(lines, 2)
	assert.Equal(lines[0], lines[1])

	// A newer script forces regeneration and a fresh checker run.
	future := time.Now().Add(time.Hour)
	err = os.Chtimes(script, future, future)
	assert.NoError(err)

	_, err = fl.Run(context.Background(), []string{"add8"})
	assert.NoError(err)
	assert.Equal(2, fgen.count("add8"))
	assert.Equal(2, checkerRuns(t, fl.Layout.OutputDir))
}

func TestFlow_Run_Force(t *testing.T) {
	assert := assert.New(t)

	fl, fgen, _ := newTestFlow(t, passBody)

	_, err := fl.Run(context.Background(), []string{"add8"})
	assert.NoError(err)

	fl.Force = true
	_, err = fl.Run(context.Background(), []string{"add8"})
	assert.NoError(err)
	assert.Equal(2, fgen.count("add8"))
	assert.Equal(2, checkerRuns(t, fl.Layout.OutputDir))
}

func TestFlow_Run_DiscoverAll(t *testing.T) {
	assert := assert.New(t)

	fl, _, report := newTestFlow(t, passBody)
	for _, name := range []string{"add8", "sub8"} {
		err := os.WriteFile(filepath.Join(fl.ScriptDir, gen.ScriptName(name)), []byte("# placeholder\n"), 0644)
		assert.NoError(err)
	}

	totals, err := fl.Run(context.Background(), nil)
	assert.NoError(err)
	assert.Equal(Totals{Pass: 2}, totals)
	assert.Len(reportLines(report), 2)
}

func TestFlow_Run_NoTargets(t *testing.T) {
	assert := assert.New(t)

	fl, _, _ := newTestFlow(t, passBody)

	_, err := fl.Run(context.Background(), nil)
	assert.True(errors.Is(err, ErrNoTargets))
}

func TestFlow_Run_Parallel(t *testing.T) {
	assert := assert.New(t)

	fl, _, report := newTestFlow(t, passBody)
	fl.Jobs = 4

	names := []string{"add8", "sub8", "and8", "eor8", "ora8", "cmp8"}
	totals, err := fl.Run(context.Background(), names)
	assert.NoError(err)
	assert.Equal(Totals{Pass: len(names)}, totals)

	// Exactly one line per instruction, no interleaving corruption.
	lines := reportLines(report)
	assert.Len(lines, len(names))
	for _, name := range names {
		matches := 0
		for _, line := range lines {
			if strings.Contains(line, "'"+name+"'") {
				matches++
			}
		}
		assert.Equal(1, matches, name)
	}
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	tmp := t.TempDir()
	template := filepath.Join(tmp, "job.sby")
	err := os.WriteFile(template, []byte("read_ilang rel_file.il\n"), 0644)
	assert.NoError(err)

	cfg := config.Default()
	cfg.FormalDir = filepath.Join(tmp, "formal")
	cfg.OutputDir = filepath.Join(tmp, "formal", "sby")
	cfg.Template = template
	cfg.SbyCommand = "/opt/sby/bin/sby"
	cfg.Jobs = 3

	fl, err := New(cfg)
	assert.NoError(err)
	assert.Equal([]byte("read_ilang rel_file.il\n"), fl.Template)
	assert.Equal(template, fl.TemplatePath)
	assert.Equal("/opt/sby/bin/sby", fl.Runner.Command)
	assert.Equal(3, fl.Jobs)
	assert.IsType(&gen.ScriptGenerator{}, fl.Generator)

	// An external generator command switches the il producer and its
	// staleness sources.
	cfg.Generator = []string{"python3", "core.py"}
	fl, err = New(cfg)
	assert.NoError(err)
	assert.IsType(&gen.ExecGenerator{}, fl.Generator)
	assert.Equal([]string{"core.py"}, fl.Sources)
}

func TestNew_BuiltinTemplate(t *testing.T) {
	assert := assert.New(t)

	fl, err := New(config.Default())
	assert.NoError(err)
	assert.Equal([]byte(sby.DefaultTemplate), fl.Template)
	assert.Empty(fl.TemplatePath)
}

func TestNew_MissingTemplate(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Template = filepath.Join(t.TempDir(), "absent.sby")
	_, err := New(cfg)
	assert.Error(err)
}

func TestLayout(t *testing.T) {
	assert := assert.New(t)

	l := Layout{OutputDir: filepath.Join("formal", "sby")}
	assert.Equal(filepath.Join("formal", "sby", "add8.il"), l.Il("add8"))
	assert.Equal(filepath.Join("formal", "sby", "add8.sby"), l.Job("add8"))
	assert.Equal(filepath.Join("formal", "sby", "add8_bmc"), l.WorkDir("add8"))
	assert.Equal(filepath.Join("formal", "sby", "add8_bmc", "PASS"), l.Sentinel("add8"))

	dir, err := l.AbsInsnDir("add8")
	assert.NoError(err)
	assert.True(filepath.IsAbs(dir))
	assert.True(strings.HasSuffix(dir, filepath.Join("formal", "sby", "add8")))
}

func TestStale(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "add8.il")
	source := filepath.Join(dir, "formal_add8.star")

	// Missing target is always stale.
	assert.True(stale(target))

	err := os.WriteFile(target, []byte("il\n"), 0644)
	assert.NoError(err)
	err = os.WriteFile(source, []byte("script\n"), 0644)
	assert.NoError(err)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	err = os.Chtimes(source, past, past)
	assert.NoError(err)
	assert.False(stale(target, source))

	err = os.Chtimes(source, future, future)
	assert.NoError(err)
	assert.True(stale(target, source))

	// Sources that do not exist are ignored.
	assert.False(stale(target, filepath.Join(dir, "absent")))
}
