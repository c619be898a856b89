package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"envmedic/internal/checks"
	"envmedic/internal/config"
	"envmedic/internal/data"
	"envmedic/internal/inventory"
	"envmedic/internal/output"
	"envmedic/internal/pip"
	"envmedic/internal/python"
)

// Engine runs the setup pipeline: provision, install (with the one-shot
// repair branch), verify, and the always-executed package report. The
// pipeline is strictly sequential; each subprocess is awaited before the
// next stage starts.
type Engine struct {
	Runner python.Runner

	// newFetcher is a test seam for the inventory layer.
	// If nil, Engine uses the real inventory fetcher.
	newFetcher func(env *python.Env, client *pip.Client) *inventory.Fetcher
}

func NewEngine(r python.Runner) *Engine {
	return &Engine{Runner: r}
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

func maybeDryRun(cfg *config.Config, plan *SetupPlan, w io.Writer) (int, bool) {
	if !cfg.Runtime.DryRun {
		return 0, false
	}

	fmt.Fprintln(w, "Setup plan:")
	fmt.Fprintf(w, "  interpreter: %s (%s)\n", plan.Interpreter, plan.InterpreterSource)
	state := "will be created"
	if plan.EnvExists {
		state = "exists, will be reused"
	}
	fmt.Fprintf(w, "  environment: %s (%s)\n", plan.EnvRoot, state)
	fmt.Fprintf(w, "  manifest:    %s (%d requirements)\n", plan.Manifest.Path, len(plan.Manifest.Requirements))
	for _, req := range plan.Manifest.Requirements {
		fmt.Fprintf(w, "    %s\n", req)
	}
	repair := "enabled"
	if cfg.Runtime.NoRepair {
		repair = "disabled"
	}
	fmt.Fprintf(w, "  repair:      %s\n", repair)
	names := make([]string, 0, len(plan.Checks))
	for _, c := range plan.Checks {
		names = append(names, c.ID())
	}
	fmt.Fprintf(w, "  checks:      %s\n", strings.Join(names, ", "))
	return 0, true
}

// install runs the primary install and, on failure, the single repair
// attempt (cache purge + no-cache reinstall). It never retries beyond that.
func (e *Engine) install(ctx context.Context, cfg *config.Config, plan *SetupPlan, client *pip.Client, outMgr *output.Manager) InstallOutcome {
	_ = outMgr.Write(output.Event{Type: "step.started", Step: "install", Env: plan.EnvRoot})
	primaryErr := client.Install(ctx, plan.Manifest.Path, pip.InstallOptions{})
	if primaryErr == nil {
		_ = outMgr.Write(output.Event{Type: "step.finished", Step: "install", Env: plan.EnvRoot, Outcome: "succeeded"})
		return OutcomeOk
	}
	_ = outMgr.Write(output.Event{
		Type: "step.finished", Step: "install", Env: plan.EnvRoot,
		Outcome: "failed", Detail: shortError(primaryErr, cfg.Runtime.Verbose),
	})

	if cfg.Runtime.NoRepair {
		return OutcomeFailedAfterRepair
	}

	_ = outMgr.Write(output.Event{Type: "step.started", Step: "repair", Env: plan.EnvRoot})
	if err := client.CachePurge(ctx); err != nil {
		// A purge that could not even run still leaves the no-cache
		// reinstall worth attempting.
		fmt.Fprintf(os.Stderr, "Warning: cache purge failed: %v\n", err)
	}
	if err := client.Install(ctx, plan.Manifest.Path, pip.InstallOptions{NoCache: true}); err != nil {
		_ = outMgr.Write(output.Event{
			Type: "step.finished", Step: "repair", Env: plan.EnvRoot,
			Outcome: "failed", Detail: shortError(err, cfg.Runtime.Verbose),
		})
		return OutcomeFailedAfterRepair
	}
	_ = outMgr.Write(output.Event{Type: "step.finished", Step: "repair", Env: plan.EnvRoot, Outcome: "succeeded"})
	return OutcomeRepairedOk
}

// verify evaluates the selected checks against inventory data and reports
// whether any failed or errored.
func (e *Engine) verify(ctx context.Context, cfg *config.Config, plan *SetupPlan, fetcher *inventory.Fetcher, outMgr *output.Manager) (hasErrors, hasFailures bool) {
	target := checks.Target{EnvRoot: plan.EnvRoot, Manifest: plan.Manifest}

	_ = outMgr.Write(output.Event{Type: "step.started", Step: "verify", Env: plan.EnvRoot})
	for _, check := range plan.Checks {
		deps, err := check.Dependencies(ctx, target)
		if err != nil {
			_ = outMgr.Write(checks.Result{
				Env:     plan.EnvRoot,
				CheckID: check.ID(),
				Status:  checks.StatusError,
				Message: fmt.Sprintf("Failed to determine dependencies: %v", err),
			})
			hasErrors = true
			continue
		}

		dataMap := make(map[data.DependencyKey]any)
		var depErrs []string
		for _, key := range deps {
			val, err := fetcher.Fetch(ctx, key)
			if err != nil {
				depErrs = append(depErrs, fmt.Sprintf("%s: %s", key, shortError(err, cfg.Runtime.Verbose)))
				continue
			}
			dataMap[key] = val
		}
		if len(depErrs) > 0 {
			msg := strings.Join(depErrs, "; ")
			if len(depErrs) == 1 {
				if _, after, ok := strings.Cut(depErrs[0], ": "); ok {
					msg = after
				}
			}
			_ = outMgr.Write(checks.Result{
				Env:     plan.EnvRoot,
				CheckID: check.ID(),
				Status:  checks.StatusError,
				Message: msg,
			})
			hasErrors = true
			continue
		}

		// Enforce the checks contract: a check must not read dependency keys
		// it did not declare in Dependencies(). This prevents checks from
		// implicitly relying on other checks' dependencies.
		tracked := data.NewTrackingDataContext(data.NewMapDataContext(dataMap))
		res, err := check.Evaluate(ctx, target, tracked)
		undeclared := undeclaredDependencyAccesses(tracked.AccessedKeys(), deps)
		if len(undeclared) > 0 {
			msg := fmt.Sprintf("Check accessed undeclared dependencies: %s. Declare them in Dependencies().", strings.Join(undeclared, ", "))
			if err != nil {
				msg = fmt.Sprintf("%s (evaluation error: %v)", msg, err)
			}
			_ = outMgr.Write(checks.Result{Env: plan.EnvRoot, CheckID: check.ID(), Status: checks.StatusError, Message: msg})
			hasErrors = true
			continue
		}
		if err != nil {
			_ = outMgr.Write(checks.Result{
				Env:     plan.EnvRoot,
				CheckID: check.ID(),
				Status:  checks.StatusError,
				Message: fmt.Sprintf("Evaluation failed: %v", err),
			})
			hasErrors = true
			continue
		}

		// Backfill identifiers so output stays consistent and well-formed.
		// Checks usually care about PASS/FAIL + message/evidence; the engine
		// already knows the env and check ID, so stamp them here.
		if res.Env == "" {
			res.Env = plan.EnvRoot
		}
		if res.CheckID == "" {
			res.CheckID = check.ID()
		}

		switch res.Status {
		case checks.StatusFail:
			hasFailures = true
		case checks.StatusError:
			hasErrors = true
		}

		_ = outMgr.Write(res)
	}

	outcome := "succeeded"
	if hasErrors || hasFailures {
		outcome = "failed"
	}
	_ = outMgr.Write(output.Event{Type: "step.finished", Step: "verify", Env: plan.EnvRoot, Outcome: outcome})
	return hasErrors, hasFailures
}

// report emits the installed-package listing. It runs exactly once per run,
// no matter how the install went; a failed environment still gets its
// partial state enumerated for the operator.
func (e *Engine) report(ctx context.Context, cfg *config.Config, plan *SetupPlan, fetcher *inventory.Fetcher, outMgr *output.Manager) {
	_ = outMgr.Write(output.Event{Type: "step.started", Step: "report", Env: plan.EnvRoot})
	val, err := fetcher.Fetch(ctx, data.DepInstalledPackages)
	if err != nil {
		_ = outMgr.Write(output.Event{
			Type: "step.finished", Step: "report", Env: plan.EnvRoot,
			Outcome: "failed", Detail: shortError(err, cfg.Runtime.Verbose),
		})
		return
	}
	pkgs, _ := val.([]pip.InstalledPackage)
	_ = outMgr.Write(output.Event{Type: "env.packages", Env: plan.EnvRoot, Packages: pkgs})
	_ = outMgr.Write(output.Event{Type: "step.finished", Step: "report", Env: plan.EnvRoot, Outcome: "succeeded"})
}

func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	if !cfg.Output.NoConsole {
		fmt.Fprintln(os.Stderr, "Resolving setup plan...")
	}
	plan, err := BuildPlan(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, OutcomeOk, false)
	}
	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Parsed %d requirements, selected %d checks.\n",
			len(plan.Manifest.Requirements), len(plan.Checks))
	}

	if code, ok := maybeDryRun(cfg, plan, os.Stdout); ok {
		return code
	}

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, OutcomeOk, false)
	}
	defer outMgr.Close()

	_ = outMgr.Write(output.Event{
		Type: "run.started", Env: plan.EnvRoot,
		Requirements: len(plan.Manifest.Requirements), Checks: len(plan.Checks),
	})

	// Provision. Failure here is fatal: nothing downstream can run without
	// an environment, and there is no installed state worth listing.
	_ = outMgr.Write(output.Event{Type: "step.started", Step: "provision", Env: plan.EnvRoot})
	env, reused, err := python.Provision(ctx, e.Runner, plan.Interpreter, plan.EnvRoot)
	if err != nil {
		_ = outMgr.Write(output.Event{
			Type: "step.finished", Step: "provision", Env: plan.EnvRoot,
			Outcome: "failed", Detail: shortError(err, cfg.Runtime.Verbose),
		})
		code := exitCodeForRun(true, OutcomeOk, false)
		_ = outMgr.Write(output.Event{Type: "run.finished", Env: plan.EnvRoot, ExitCode: code})
		return code
	}
	detail := "created"
	if reused {
		detail = "reused existing environment"
	}
	_ = outMgr.Write(output.Event{Type: "step.finished", Step: "provision", Env: plan.EnvRoot, Outcome: "succeeded", Detail: detail})

	client, err := pip.NewClient(env, e.Runner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code := exitCodeForRun(true, OutcomeOk, false)
		_ = outMgr.Write(output.Event{Type: "run.finished", Env: plan.EnvRoot, ExitCode: code})
		return code
	}
	fetcher := e.makeFetcher(env, client)

	outcome := e.install(ctx, cfg, plan, client, outMgr)

	// Verification only makes sense against a successfully installed
	// environment; after a failed install the package listing is the signal.
	hasErrors, hasFailures := false, false
	if outcome != OutcomeFailedAfterRepair {
		hasErrors, hasFailures = e.verify(ctx, cfg, plan, fetcher, outMgr)
	}

	e.report(ctx, cfg, plan, fetcher, outMgr)

	code := exitCodeForRun(false, outcome, hasErrors || hasFailures)
	_ = outMgr.Write(output.Event{Type: "run.finished", Env: plan.EnvRoot, ExitCode: code})
	return code
}

func (e *Engine) makeFetcher(env *python.Env, client *pip.Client) *inventory.Fetcher {
	if e.newFetcher != nil {
		return e.newFetcher(env, client)
	}
	return inventory.NewFetcher(env, client)
}

func undeclaredDependencyAccesses(accessed []data.DependencyKey, declared []data.DependencyKey) []string {
	if len(accessed) == 0 {
		return nil
	}
	decl := make(map[data.DependencyKey]struct{}, len(declared))
	for _, d := range declared {
		decl[d] = struct{}{}
	}

	var out []string
	for _, k := range accessed {
		if _, ok := decl[k]; ok {
			continue
		}
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// shortError keeps console detail lines readable: one line, trimmed, with
// full subprocess stderr only under --verbose.
func shortError(err error, verbose bool) string {
	if err == nil {
		return ""
	}
	var runErr *python.RunError
	if !verbose && errors.As(err, &runErr) {
		msg := strings.TrimSpace(string(runErr.Stderr))
		if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
			msg = strings.TrimSpace(msg[i+1:])
		}
		if msg != "" {
			return msg
		}
		return fmt.Sprintf("exit code %d", runErr.ExitCode)
	}
	return strings.Join(strings.Fields(err.Error()), " ")
}
