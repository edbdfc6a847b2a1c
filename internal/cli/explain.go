package cli

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pranshuparmar/witr/internal/inspect"
	"github.com/pranshuparmar/witr/internal/output"
	"github.com/pranshuparmar/witr/internal/target"
	"github.com/pranshuparmar/witr/pkg/model"
)

func runExplain(cmd *cobra.Command, opts *options, args []string, newProvider providerFactory) error {
	t, ok := opts.target(args)
	if !ok {
		_ = cmd.Usage()
		return exitWith(1, "")
	}

	a, err := newApp(cmd, opts, newProvider)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	pid, err := a.resolveOne(ctx, t, opts.env)
	if err != nil {
		return err
	}

	if opts.env {
		return a.renderEnv(ctx, pid, opts)
	}

	res, err := a.inspector.Inspect(ctx, t, pid)
	if err != nil {
		a.reportError(err)
		return exitWith(1, "")
	}
	return a.render(ctx, res, opts)
}

// resolveOne resolves t and insists on a single pid. Every failure has
// already been printed when it returns an error.
func (a *app) resolveOne(ctx context.Context, t model.Target, env bool) (int, error) {
	pids, err := a.resolver.Resolve(ctx, t)
	if err != nil {
		a.reportError(err)
		return 0, exitWith(1, "")
	}
	if len(pids) > 1 {
		a.reportMultiple(ctx, pids, env)
		return 0, exitWith(1, "")
	}
	return pids[0], nil
}

func (a *app) render(ctx context.Context, res model.Result, opts *options) error {
	w := a.out
	switch {
	case opts.json:
		return output.WriteJSON(w, res)
	case opts.yaml:
		return output.WriteYAML(w, res)
	case opts.warnings:
		output.RenderWarnings(w, res, a.color)
	case opts.tree:
		output.PrintTree(w, res.Ancestry, a.inspector.Children(ctx, res.Process.PID), a.color)
	case opts.children:
		output.PrintChildren(w, res.Process, a.inspector.Children(ctx, res.Process.PID), a.color)
	case opts.short:
		output.RenderShort(w, res, a.color)
	default:
		output.RenderStandard(w, res, a.now(), a.color)
	}
	return nil
}

func (a *app) renderEnv(ctx context.Context, pid int, opts *options) error {
	p, err := a.provider.FetchProcess(ctx, pid)
	if err != nil {
		a.reportError(err)
		return exitWith(1, "")
	}
	switch {
	case opts.json:
		return output.WriteJSON(a.out, output.NewEnvView(p))
	case opts.yaml:
		return output.WriteYAML(a.out, output.NewEnvView(p))
	}
	output.RenderEnvOnly(a.out, p, a.color)
	return nil
}

func (a *app) reportError(err error) {
	p := output.NewPrinter(a.errOut, false)

	var ambiguous *target.AmbiguousError
	if errors.As(err, &ambiguous) {
		a.reportAmbiguous(ambiguous)
		return
	}

	p.Println()
	p.Println("Error:")
	p.Printf("  %s\n", err.Error())
	switch {
	case errors.Is(err, target.ErrOwnerNotDetected):
		p.Println("\nA socket was found for the port, but the owning process could not be detected.")
		p.Println("This may be due to insufficient permissions. Try running with sudo:")
		p.Printf("  sudo %s\n", strings.Join(a.argv, " "))
	case errors.Is(err, inspect.ErrProcessNotFound):
		p.Println("\nNo matching process or service found. Please check your query or try a different name/port/PID.")
	}
	p.Println("For usage and options, run: witr --help")
}

func (a *app) reportAmbiguous(e *target.AmbiguousError) {
	p := output.NewPrinter(a.errOut, false)

	p.Printf("Ambiguous target: \"%s\"\n\n", e.Name)
	p.Println("The name matches multiple entities:")
	p.Println()
	idx := 1
	if e.ServicePID > 0 {
		p.Printf("[%d] PID %d   %s: master process   (service)\n", idx, e.ServicePID, e.Name)
		idx++
	}
	for _, pid := range e.PIDs {
		if pid == e.ServicePID {
			continue
		}
		p.Printf("[%d] PID %d   %s: worker process   (manual)\n", idx, pid, e.Name)
		idx++
	}
	p.Println()
	p.Println("witr cannot determine intent safely.")
	p.Println("Please re-run with an explicit PID:")
	p.Println("  witr --pid <pid>")
}

func (a *app) reportMultiple(ctx context.Context, pids []int, env bool) {
	p := output.NewPrinter(a.errOut, false)

	p.Print("Multiple matching processes found:\n\n")
	for i, pid := range pids {
		cmdline := ""
		if proc, err := a.provider.FetchProcess(ctx, pid); err == nil {
			cmdline = proc.Cmdline
			if cmdline == "" {
				cmdline = proc.Command
			}
		}
		p.Printf("[%d] PID %d   %s\n", i+1, pid, cmdline)
	}
	p.Println("\nRe-run with:")
	if env {
		p.Println("  witr --pid <pid> --env")
	} else {
		p.Println("  witr --pid <pid>")
	}
}
