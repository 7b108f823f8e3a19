package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pbrown/smartnav/internal/config"
	"github.com/pbrown/smartnav/internal/debuglog"
	"github.com/pbrown/smartnav/internal/dirs"
	"github.com/pbrown/smartnav/internal/timing"
)

const (
	usageText = `Usage: smartnav <command> [args]

Commands:
  add                 Record the current directory as visited
  jump <query>        Print the best matching visited directory
  list [--limit N]    Show recorded directories by rank
  init <shell>        Print shell integration (bash, zsh, fish)
`
	jumpUsage = "Usage: smartnav jump <query>"
	initUsage = "Usage: smartnav init <bash|zsh|fish>"

	defaultListLimit = 20
)

// usageError is reported on stdout with a zero exit code
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// App encapsulates CLI state and dependencies for testability
type App struct {
	stdout io.Writer
	stderr io.Writer
	getwd  func() (string, error)
	now    func() time.Time

	// configPath defaults to config.DefaultPath(); cfg is loaded from it
	// lazily unless already set
	configPath string
	cfg        *config.Config
	log        *debuglog.Logger
}

// NewApp creates a new App bound to the process's stdout, stderr and cwd
func NewApp() *App {
	return &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		getwd:  os.Getwd,
		now:    time.Now,
	}
}

// initConfig loads config and opens the debug log if not already done
func (a *App) initConfig() error {
	if a.cfg == nil {
		path := a.configPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}
	if a.log == nil {
		a.log = debuglog.New(a.cfg.StateDir, a.cfg.DebugLevel)
	}
	return nil
}

// Run parses arguments and dispatches to commands
func (a *App) Run(args []string) int {
	root := a.newRootCmd()
	root.SetArgs(args[1:])

	cmd, err := root.ExecuteContextC(context.Background())
	if a.log != nil {
		defer a.log.Close()
	}

	var uerr *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &uerr):
		fmt.Fprintln(a.stdout, uerr.msg)
		return 0
	default:
		if a.log != nil && cmd != nil {
			a.log.LogError(cmd.Name(), err)
		}
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}
}

func (a *App) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartnav",
		Short:         "Jump to frequently and recently visited directories",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				a.printHelp()
				return nil
			}
			fmt.Fprintf(a.stdout, "Unknown command: %s\n", args[0])
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetHelpFunc(func(*cobra.Command, []string) { a.printHelp() })
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error() + "\n\n" + usageText}
	})

	root.AddCommand(
		&cobra.Command{
			Use:   "add",
			Short: "Record the current directory as visited",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runAdd(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "jump <query>",
			Short: "Print the best matching visited directory",
			// Queries are taken verbatim, including ones starting with "-"
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runJump(cmd.Context(), args)
			},
		},
		a.newListCmd(),
		&cobra.Command{
			Use:   "init <shell>",
			Short: "Print shell integration",
			Args:  cobra.ArbitraryArgs,
			RunE: func(_ *cobra.Command, args []string) error {
				return a.runInit(args)
			},
		},
	)

	return root
}

// printHelp prints the help message
func (a *App) printHelp() {
	fmt.Fprint(a.stdout, usageText)
}

// openStore opens the configured database, timing it as the "open" phase
func (a *App) openStore(ctx context.Context, timer *timing.Timer) (*dirs.Store, error) {
	done := timer.Track("open")
	defer done()
	return dirs.Open(ctx, a.cfg.DBPath, dirs.WithClock(a.now))
}

// runAdd records the working directory unless it is excluded
func (a *App) runAdd(ctx context.Context) error {
	if err := a.initConfig(); err != nil {
		return err
	}

	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("resolving current directory: %w", err)
	}

	filter, err := dirs.NewFilter(a.cfg.Exclude)
	if err != nil {
		return err
	}
	if pattern, excluded := filter.Excluded(cwd); excluded {
		a.log.LogVisitSkipped(cwd, pattern)
		return nil
	}

	timer := timing.New()
	store, err := a.openStore(ctx, timer)
	if err != nil {
		return err
	}
	defer store.Close()

	done := timer.Track("record")
	err = store.RecordVisit(ctx, cwd)
	done()
	if err != nil {
		return err
	}

	a.log.LogVisit(cwd, timer.ElapsedMs())
	a.log.LogPhases("add", timer.ElapsedMs(), timer.Phases())
	return nil
}

// runJump prints the best match for args[0]; nothing when there is none
func (a *App) runJump(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.stdout, jumpUsage)
		return nil
	}
	query := args[0]

	if err := a.initConfig(); err != nil {
		return err
	}

	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("resolving current directory: %w", err)
	}

	timer := timing.New()
	store, err := a.openStore(ctx, timer)
	if err != nil {
		return err
	}
	defer store.Close()

	done := timer.Track("match")
	target, found, err := store.FindBestMatch(ctx, query, cwd)
	done()
	if err != nil {
		return err
	}

	a.log.LogJump(query, cwd, target, found, timer.ElapsedMs())
	a.log.LogPhases("jump", timer.ElapsedMs(), timer.Phases())

	if found {
		fmt.Fprintln(a.stdout, target)
	}
	return nil
}

func (a *App) newListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded directories by rank",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultListLimit, "maximum entries to show (0 = all)")
	return cmd
}

// runList prints a ranked table; entries under the cwd are starred
func (a *App) runList(ctx context.Context, limit int) error {
	if err := a.initConfig(); err != nil {
		return err
	}

	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("resolving current directory: %w", err)
	}

	store, err := a.openStore(ctx, timing.New())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "No directories recorded.")
		return nil
	}

	r := lipgloss.NewRenderer(a.stdout)
	header := r.NewStyle().Bold(true)
	scoreCol := r.NewStyle().Width(7).Align(lipgloss.Right)
	ageCol := r.NewStyle().Width(10).Align(lipgloss.Right)
	local := r.NewStyle().Foreground(lipgloss.Color("10"))

	fmt.Fprintln(a.stdout, header.Render(scoreCol.Render("SCORE")+"  "+ageCol.Render("VISITED")+"    PATH"))

	now := a.now()
	for _, rec := range records {
		marker, path := "  ", rec.Path
		if rec.IsUnder(cwd) {
			marker, path = "* ", local.Render(rec.Path)
		}
		fmt.Fprintln(a.stdout, scoreCol.Render(strconv.FormatInt(rec.Score, 10))+"  "+
			ageCol.Render(formatAge(rec.Age(now)))+"  "+marker+path)
	}
	return nil
}

// formatAge renders a duration as a short "ago" string
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}

// runInit prints the integration script for a shell
func (a *App) runInit(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.stdout, initUsage)
		return nil
	}

	script, ok := shellScripts[args[0]]
	if !ok {
		fmt.Fprintf(a.stdout, "Unsupported shell: %s\n%s\n", args[0], initUsage)
		return nil
	}
	fmt.Fprint(a.stdout, script)
	return nil
}
