// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package flow

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/fv6502/config"
	"github.com/ezrec/fv6502/gen"
	"github.com/ezrec/fv6502/sby"
)

// Flow is the aggregate verification pipeline.
type Flow struct {
	Verbose bool // If set, verbosely logs pipeline decisions.
	Force   bool // If set, ignores staleness and rebuilds everything.
	Jobs    int  // Parallel verification jobs; 1 if zero.

	ScriptDir string        // Directory of generator scripts.
	Sources   []string      // Extra staleness sources, e.g. the model file of an external generator.
	Generator gen.Generator // il producer.
	Runner    *sby.Runner   // Checker invoker.

	Template     []byte // Job template content.
	TemplatePath string // Template origin on disk, "" for the built-in.

	Layout Layout    // Filesystem contract.
	Report io.Writer // Per-instruction report lines; os.Stdout if nil.

	Now func() time.Time // Clock for report timestamps; time.Now if nil.

	mu sync.Mutex
}

// New builds a Flow from a configuration.
func New(cfg config.Config) (fl *Flow, err error) {
	template := []byte(sby.DefaultTemplate)
	if cfg.Template != "" {
		template, err = os.ReadFile(cfg.Template)
		if err != nil {
			return
		}
	}

	var generator gen.Generator
	var sources []string
	if len(cfg.Generator) != 0 {
		generator = &gen.ExecGenerator{
			Verbose: cfg.Verbose,
			Command: cfg.Generator[0],
			Args:    cfg.Generator[1:],
		}
		// The model source files double as staleness inputs.
		sources = cfg.Generator[1:]
	} else {
		generator = &gen.ScriptGenerator{
			Verbose: cfg.Verbose,
			Scripts: os.DirFS(cfg.FormalDir),
		}
	}

	fl = &Flow{
		Verbose:   cfg.Verbose,
		Jobs:      cfg.Jobs,
		ScriptDir: cfg.FormalDir,
		Sources:   sources,
		Generator: generator,
		Runner: &sby.Runner{
			Verbose: cfg.Verbose,
			Command: cfg.SbyCommand,
			Args:    cfg.SbyArgs,
		},
		Template:     template,
		TemplatePath: cfg.Template,
		Layout:       Layout{OutputDir: cfg.OutputDir},
	}
	return
}

// Totals summarizes one aggregate run.
type Totals struct {
	Pass         int
	Fail         int
	Inconsistent int
}

func (t *Totals) add(outcome sby.Outcome) {
	switch outcome {
	case sby.OUTCOME_PASS:
		t.Pass++
	case sby.OUTCOME_FAIL:
		t.Fail++
	case sby.OUTCOME_INCONSISTENT:
		t.Inconsistent++
	}
}

// Targets returns the discovered instruction names, sorted.
func (fl *Flow) Targets() (names []string, err error) {
	return gen.DiscoverDir(fl.ScriptDir)
}

// Run verifies the named instructions, or every discovered instruction if
// names is empty. All requested instructions are attempted; a failing one
// never aborts the others. Exactly one report line is written per
// instruction.
func (fl *Flow) Run(ctx context.Context, names []string) (totals Totals, err error) {
	if len(names) == 0 {
		names, err = fl.Targets()
		if err != nil {
			return
		}
		if len(names) == 0 {
			err = ErrNoTargets
			return
		}
	}

	if fl.Verbose {
		log.Printf("flow: run %v: %v instruction(s)", uuid.New(), len(names))
		for _, token := range sby.MissingTokens(fl.Template) {
			log.Printf("flow: template is missing the '%v' token", token)
		}
	}

	jobs := fl.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	var mu sync.Mutex
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for _, name := range names {
		group.Go(func() error {
			outcome := fl.verify(gctx, name)
			mu.Lock()
			totals.add(outcome)
			mu.Unlock()
			return gctx.Err()
		})
	}
	err = group.Wait()
	return
}

// verify runs one instruction's pipeline and reports its single line.
func (fl *Flow) verify(ctx context.Context, name string) (outcome sby.Outcome) {
	res, err := fl.verifyOne(ctx, name)
	if err != nil {
		// Pipeline error ahead of the checker. Still one line, still a
		// failure for this instruction.
		fl.report(f("%v Formal verification FAILED for instruction '%v': %v", fl.timestamp(), name, err))
		outcome = sby.OUTCOME_FAIL
		return
	}

	outcome = res.Outcome
	switch res.Outcome {
	case sby.OUTCOME_PASS:
		fl.report(f("%v Verified instruction '%v'", fl.timestamp(), name))
	case sby.OUTCOME_FAIL:
		fl.report(f("%v Formal verification FAILED for instruction '%v'", fl.timestamp(), name))
		if fl.Verbose && res.Message != "" {
			log.Printf("flow: %v: %v", name, res.Message)
		}
	case sby.OUTCOME_INCONSISTENT:
		fl.report(f("%v WARNING no pass sentinel for instruction '%v': %v", fl.timestamp(), name, res.Message))
	}
	return
}

// verifyOne regenerates whatever is stale and runs the checker.
func (fl *Flow) verifyOne(ctx context.Context, name string) (res sby.Result, err error) {
	il := fl.Layout.Il(name)

	ilSources := append([]string{}, fl.Sources...)
	if fl.ScriptDir != "" {
		ilSources = append(ilSources, filepath.Join(fl.ScriptDir, gen.ScriptName(name)))
	}
	if fl.Force || stale(il, ilSources...) {
		var data []byte
		data, err = fl.Generator.Generate(ctx, name)
		if err != nil {
			return
		}
		err = gen.WriteArtifact(il, data)
		if err != nil {
			return
		}
		if fl.Verbose {
			log.Printf("flow: %v: wrote %v", name, il)
		}
	}

	job := fl.Layout.Job(name)
	jobSources := []string{}
	if fl.TemplatePath != "" {
		jobSources = append(jobSources, fl.TemplatePath)
	}
	if fl.Force || stale(job, jobSources...) {
		var absDir string
		absDir, err = fl.Layout.AbsInsnDir(name)
		if err != nil {
			return
		}
		err = gen.WriteArtifact(job, sby.Materialize(fl.Template, name, absDir))
		if err != nil {
			return
		}
		if fl.Verbose {
			log.Printf("flow: %v: wrote %v", name, job)
		}
	}

	sentinel := fl.Layout.Sentinel(name)
	if !fl.Force && !stale(sentinel, il, job) {
		// The prior pass sentinel is newer than every input; the
		// earlier verdict stands.
		res = sby.Result{Insn: name, Outcome: sby.OUTCOME_PASS, Sentinel: sentinel}
		return
	}

	return fl.Runner.Verify(ctx, name, job, sentinel)
}

// stale reports whether the target is missing or older than any source.
// Sources that do not exist are ignored.
func stale(target string, sources ...string) bool {
	ti, err := os.Stat(target)
	if err != nil {
		return true
	}
	for _, source := range sources {
		si, err := os.Stat(source)
		if err != nil {
			continue
		}
		if si.ModTime().After(ti.ModTime()) {
			return true
		}
	}
	return false
}

func (fl *Flow) timestamp() string {
	now := fl.Now
	if now == nil {
		now = time.Now
	}
	return now().Format("15:04:05")
}

func (fl *Flow) report(line string) {
	out := fl.Report
	if out == nil {
		out = os.Stdout
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fmt.Fprintln(out, line)
}
