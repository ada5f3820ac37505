// Package cli implements the jobctl subcommands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Harsh-BH/fieldtools/internal/domain"
	"github.com/Harsh-BH/fieldtools/internal/repository/file"
	"github.com/Harsh-BH/fieldtools/internal/report"
	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// App runs jobctl subcommands against a JobService.
type App struct {
	Service *usecase.JobService
	In      io.Reader
	Out     io.Writer
	Err     io.Writer

	// Interactive reports whether In is a terminal; add without field
	// flags opens the entry form only then.
	Interactive bool

	// Form collects fields interactively. Defaults to RunForm.
	Form func(ctx context.Context, in io.Reader, out io.Writer) (domain.RawFields, bool, error)
}

// Usage prints the command summary.
func (a *App) Usage() {
	fmt.Fprint(a.Err, `usage: jobctl [-store file|sheet|postgres|badger] <command> [flags]

commands:
  add      record a job (flags, or an interactive form on a terminal)
  list     list stored jobs
  stats    show aggregate statistics
  report   print the report for one job: report [-o file] <id>
`)
}

// Run dispatches args[0] and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.Usage()
		return ExitUsage
	}

	var err error
	switch args[0] {
	case "add":
		err = a.add(ctx, args[1:])
	case "list":
		err = a.list(ctx, args[1:])
	case "stats":
		err = a.stats(ctx, args[1:])
	case "report":
		err = a.report(ctx, args[1:])
	case "help", "-h", "--help":
		a.Usage()
		return ExitOK
	default:
		fmt.Fprintf(a.Err, "jobctl: unknown command %q\n", args[0])
		a.Usage()
		return ExitUsage
	}

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return ExitUsage
	default:
		fmt.Fprintf(a.Err, "jobctl: %v\n", err)
		return ExitFailure
	}
}

var errUsage = errors.New("usage")

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("jobctl "+name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	var raw domain.RawFields
	fs.StringVar(&raw.ID, "id", "", "job id (generated when empty)")
	fs.StringVar(&raw.Address, "address", "", "service address")
	fs.StringVar(&raw.Issue, "issue", "", "reported issue")
	fs.StringVar(&raw.Resolution, "resolution", "", "resolution notes")
	fs.StringVar(&raw.TechName, "tech", "", "technician name")
	fs.StringVar(&raw.Signal, "signal", "", "signal quality: Good, Fair or Bad")
	fs.StringVar(&raw.StartTime, "start", "", "start time, YYYY-MM-DD HH:MM or RFC 3339")
	fs.StringVar(&raw.EndTime, "end", "", "end time, YYYY-MM-DD HH:MM or RFC 3339")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NFlag() == 0 || (fs.NFlag() == 1 && *asJSON) {
		if !a.Interactive {
			fmt.Fprintln(a.Err, "jobctl add: no fields given and stdin is not a terminal")
			fs.Usage()
			return errUsage
		}
		form := a.Form
		if form == nil {
			form = RunForm
		}
		entered, ok, err := form(ctx, a.In, a.Out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.Out, "cancelled")
			return nil
		}
		raw = entered
	}

	res := a.Service.CreateJob(ctx, raw)
	if *asJSON {
		if err := writeJSON(a.Out, res); err != nil {
			return err
		}
	}
	if !res.Saved {
		return res.Err
	}
	if !*asJSON {
		fmt.Fprintf(a.Out, "saved job %s (%s, %d min)\n", res.Job.ID, res.Job.TechName, res.Job.DurationMinutes)
	}
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	format := fs.String("format", FormatTable, "output format: table, json or yaml")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	jobs, err := a.Service.ListJobs(ctx)
	if err != nil {
		return err
	}
	return RenderJobs(a.Out, jobs, *format)
}

func (a *App) stats(ctx context.Context, args []string) error {
	fs := a.newFlagSet("stats")
	format := fs.String("format", FormatTable, "output format: table, json or yaml")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	r, err := a.Service.GetStats(ctx)
	if err != nil {
		return err
	}
	return RenderStats(a.Out, r, *format)
}

func (a *App) report(ctx context.Context, args []string) error {
	fs := a.newFlagSet("report")
	out := fs.String("o", "", "write the report to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.Err, "jobctl report: exactly one job id is required")
		return errUsage
	}

	job, err := a.Service.GetJob(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	if *out == "" {
		return report.Write(a.Out, job)
	}
	if err := file.WriteAtomic(*out, report.Bytes(job)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(a.Out, "report saved to %s\n", *out)
	return nil
}
