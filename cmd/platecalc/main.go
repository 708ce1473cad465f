package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-changer/internal/application"
	"github.com/eugenenazirov/plate-changer/internal/config"
	"github.com/eugenenazirov/plate-changer/internal/inventory"
	"github.com/eugenenazirov/plate-changer/internal/logging"
	"github.com/eugenenazirov/plate-changer/internal/planner"
	"github.com/eugenenazirov/plate-changer/internal/units"
)

const (
	exitOK = iota
	exitPlanFailed
	exitUsage
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("platecalc", "Prints the fewest plate-pair moves to go from one barbell weight to another")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Terminate(nil)

	current := app.Flag("current", "Total weight currently on the bar, in kg").Required().String()
	desired := app.Flag("desired", "Total weight wanted on the bar, in kg").Required().String()
	inventoryStr := app.Flag("inventory", "Plate totals overriding the configured inventory, e.g. 25=4,2.5=2").String()
	swap := app.Flag("swap", "Exchange current and desired before planning").Bool()
	configFile := app.Flag("config", "Path to YAML configuration file").String()
	barKg := app.Flag("bar-kg", "Bar weight in kilograms").String()
	platesStr := app.Flag("plates", "Comma-separated plate weights in kilograms, heaviest first").String()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").String()

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintf(stderr, "platecalc: %v\n", err)
		return exitUsage
	}

	overrides := &config.CLIOverrides{ConfigFile: *configFile, LogLevel: logLevel}
	if *barKg != "" {
		overrides.BarKg = barKg
	}
	if *platesStr != "" {
		overrides.PlatesStr = platesStr
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(stderr, "platecalc: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "platecalc: %v\n", err)
		return exitUsage
	}
	defer func() {
		_ = logger.Sync()
	}()

	p, _, err := application.NewPlanner(cfg, logger)
	if err != nil {
		logger.Error("failed to create planner", zap.Error(err))
		fmt.Fprintf(stderr, "platecalc: %v\n", err)
		return exitUsage
	}

	req := planner.Request{CurrentKg: *current, DesiredKg: *desired}
	if *inventoryStr != "" {
		raw, err := inventory.ParseAssignments(*inventoryStr)
		if err != nil {
			fmt.Fprintf(stderr, "platecalc: %v\n", err)
			return exitUsage
		}
		req.Inventory = raw
	}
	if *swap {
		req = req.Swap()
	}

	result, err := p.Plan(req)
	if err != nil {
		var planErr *planner.Error
		if errors.As(err, &planErr) {
			fmt.Fprintf(stderr, "platecalc: %s (%s)\n", planErr, planErr.Kind)
		} else {
			fmt.Fprintf(stderr, "platecalc: %v\n", err)
		}
		return exitPlanFailed
	}

	printResult(stdout, result)
	return exitOK
}

func printResult(w io.Writer, r planner.Result) {
	fmt.Fprintf(w, "%s kg -> %s kg on a %s kg bar: %d operation(s)\n",
		units.FormatKg(r.CurrentKg), units.FormatKg(r.DesiredKg), units.FormatKg(r.BarKg), r.Operations)
	fmt.Fprintf(w, "Current per side: %s (%s kg)\n", planner.FormatPlates(r.Current.Plates), units.FormatKg(r.Current.PerSideKg))
	fmt.Fprintf(w, "Desired per side: %s (%s kg)\n", planner.FormatPlates(r.Desired.Plates), units.FormatKg(r.Desired.PerSideKg))

	if r.Unchanged() {
		fmt.Fprintln(w, "No changes needed.")
		return
	}
	if len(r.Remove) > 0 {
		fmt.Fprintf(w, "Remove: %s\n", planner.FormatMoves(r.Remove))
	}
	if len(r.Add) > 0 {
		fmt.Fprintf(w, "Add: %s\n", planner.FormatMoves(r.Add))
	}
}
