package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"pseint2js/api"
	"pseint2js/catalog"
	"pseint2js/common"
	"pseint2js/config"
	"pseint2js/history"
	"pseint2js/transpiler"
)

// errFailed makes the process exit with status 1 once diagnostics have
// already been printed.
var errFailed = errors.New("conversion failed")

// Execute runs the pseint2js CLI with the given version string.
func Execute(version string) {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := a.command(version).Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries the streams the commands read from and write to.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (a *app) command(version string) *cli.Command {
	return &cli.Command{
		Name:                   "pseint2js",
		Usage:                  "Convert PSeInt pseudocode into JavaScript",
		Version:                version,
		UseShortOptionHandling: true,
		Writer:                 a.stdout,
		ErrWriter:              a.stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		},
		// Allow `pseint2js prog.psc` as shorthand for `pseint2js convert prog.psc`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				return a.convertAction(ctx, cmd)
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Print the JavaScript translation of a program",
				ArgsUsage: "[file.psc | -]",
				Flags: []cli.Flag{
					strictFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full conversion result as JSON",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the JavaScript to this file",
					},
				},
				Action: a.convertAction,
			},
			{
				Name:      "check",
				Usage:     "Report diagnostics without printing the translation",
				ArgsUsage: "[file.psc | -]",
				Flags:     []cli.Flag{strictFlag()},
				Action:    a.checkAction,
			},
			{
				Name:   "exercises",
				Usage:  "List the built-in practice exercises",
				Action: a.exercisesAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only list exercises of this category",
					},
				},
				Commands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show an exercise, its solution and the translated solution",
						ArgsUsage: "<id>",
						Action:    a.showExerciseAction,
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Serve the conversion HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default from PSEINT_ADDR or :8080)",
					},
					&cli.StringFlag{
						Name:  "history",
						Usage: "SQLite file recording conversions (default from PSEINT_HISTORY)",
					},
					strictFlag(),
				},
				Action: a.serveAction,
			},
		},
	}
}

func strictFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "strict",
		Usage: "Report block nesting problems as errors",
	}
}

// readSource reads the file named by the first argument, or stdin when it
// is missing or "-". It returns the source and a display name.
func (a *app) readSource(cmd *cli.Command) (string, string, error) {
	path := cmd.Args().First()
	if path == "" || path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}

// options combines the --strict flag with PSEINT_STRICT.
func options(cmd *cli.Command) (transpiler.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return transpiler.Options{}, err
	}
	return transpiler.Options{Strict: cmd.Bool("strict") || cfg.Strict}, nil
}

func (a *app) convertAction(ctx context.Context, cmd *cli.Command) error {
	src, name, err := a.readSource(cmd)
	if err != nil {
		return err
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	res := transpiler.ConvertWithOptions(src, opts)

	if cmd.Bool("json") {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		if !res.Success {
			return errFailed
		}
		return nil
	}

	newReporter(a.stderr, name, cmd.Bool("no-color")).report(res)
	if res.GeneratedText != "" {
		if out := cmd.String("output"); out != "" {
			if err := os.WriteFile(out, []byte(res.GeneratedText), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
		} else {
			fmt.Fprint(a.stdout, res.GeneratedText)
		}
	}
	if !res.Success {
		return errFailed
	}
	return nil
}

func (a *app) checkAction(ctx context.Context, cmd *cli.Command) error {
	src, name, err := a.readSource(cmd)
	if err != nil {
		return err
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	res := transpiler.ConvertWithOptions(src, opts)
	rep := newReporter(a.stdout, name, cmd.Bool("no-color"))
	rep.report(res)
	rep.summary(res)
	if !res.Success {
		return errFailed
	}
	return nil
}

func (a *app) exercisesAction(ctx context.Context, cmd *cli.Command) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	for _, ex := range cat.ByCategory(cmd.String("category")) {
		fmt.Fprintf(a.stdout, "%-22s %-14s %-8s %s\n", ex.ID, ex.Category, ex.Difficulty, ex.Title)
	}
	return nil
}

func (a *app) showExerciseAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: pseint2js exercises show <id>")
	}
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	ex, err := cat.Get(cmd.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s (%s, %s)\n\n%s\n", ex.Title, ex.Category, ex.Difficulty, ex.Description)
	fmt.Fprintf(a.stdout, "\n%s\n", rule("Instrucciones"))
	for i, step := range ex.Instructions {
		fmt.Fprintf(a.stdout, "  %d. %s\n", i+1, step)
	}
	fmt.Fprintf(a.stdout, "\n%s\n", rule("Pistas"))
	for _, h := range ex.Hints {
		fmt.Fprintf(a.stdout, "  - %s\n", h)
	}
	fmt.Fprintf(a.stdout, "\n%s\n%s\n", rule("Salida esperada"), ex.ExpectedOutput)
	fmt.Fprintf(a.stdout, "\n%s\n%s\n", rule("PSeInt"), strings.TrimRight(ex.Solution, "\n"))
	fmt.Fprintf(a.stdout, "\n%s\n%s", rule("JavaScript"), transpiler.Convert(ex.Solution).GeneratedText)
	return nil
}

func rule(title string) string {
	return "--- " + title + " " + strings.Repeat("-", max(0, 40-len(title)))
}

func (a *app) serveAction(ctx context.Context, cmd *cli.Command) error {
	log := common.Logger()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg = cfg.Merge(config.Config{
		Addr:        cmd.String("addr"),
		HistoryPath: cmd.String("history"),
		Strict:      cmd.Bool("strict"),
	})

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	var hist *history.Store
	if cfg.HistoryPath != "" {
		hist, err = history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer hist.Close()
		log.Info("serve: history enabled", "path", cfg.HistoryPath)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.New(cfg, cat, hist).ListenAndServe(ctx)
}
