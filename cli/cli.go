// Package cli wires the browser's flags to the ingestor, collection,
// uiadapter, and tui packages, following the teacher's urfave/cli/v2 front
// end and its --config mutual-exclusion validation pattern.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tuplecats/logscope/collection"
	"github.com/tuplecats/logscope/config"
	"github.com/tuplecats/logscope/heatmap"
	"github.com/tuplecats/logscope/ingestor"
	"github.com/tuplecats/logscope/tui"
	"github.com/tuplecats/logscope/uiadapter"
)

// version is set at build time in the teacher's tree via a generated
// package; no such generator exists here, so it is a plain constant.
const version = "0.1.0"

var (
	directoryFlag = &cli.StringFlag{
		Name:  "directory",
		Usage: "root of the hourly log file tree (mutually exclusive with --config)",
	}
	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "only ingest records at or after this time: now, or now-<N>(s|m|h|d|w)",
	}
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML config file providing [session] directory/from (mutually exclusive with --directory/--from)",
	}
	heatmapOutFlag = &cli.StringFlag{
		Name:  "heatmap-out",
		Usage: "write a day/hour activity heatmap to this HTML file on exit",
	}
	filterFlag = &cli.StringFlag{
		Name:  "filter",
		Usage: "a saved filter preset name from --config's [filters] table, or WHERE.../ regex filter text to apply at startup",
	}
)

// App is the entry point run from main.go.
var App = &cli.App{
	Name:    "logscope",
	Usage:   "browse a fleet of hourly structured log files interactively",
	Version: version,
	Flags: []cli.Flag{
		directoryFlag,
		fromFlag,
		configFlag,
		heatmapOutFlag,
		filterFlag,
	},
	Action: run,
}

func validateFlags(c *cli.Context) error {
	if c.IsSet("config") && (c.IsSet("directory") || c.IsSet("from")) {
		return fmt.Errorf("--config is mutually exclusive with --directory and --from")
	}
	if !c.IsSet("config") && !c.IsSet("directory") {
		return fmt.Errorf("--directory is required unless --config is given")
	}
	return nil
}

// resolveSession works out the root directory, start time, and initial
// filter text from either --config or the discrete flags.
func resolveSession(c *cli.Context) (directory string, from time.Time, initialFilter string, err error) {
	if configPath := c.String("config"); configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return "", time.Time{}, "", fmt.Errorf("loading config: %w", err)
		}
		directory = cfg.Session.Directory
		if directory == "" {
			return "", time.Time{}, "", fmt.Errorf("config file is missing [session] directory")
		}
		if cfg.Session.From != "" {
			from, err = parseRelativeTime(cfg.Session.From, time.Now())
			if err != nil {
				return "", time.Time{}, "", fmt.Errorf("invalid [session] from: %w", err)
			}
		}
		if name := c.String("filter"); name != "" {
			if text, ok := cfg.Filter(name); ok {
				initialFilter = text
			} else {
				initialFilter = name
			}
		}
		return directory, from, initialFilter, nil
	}

	directory = c.String("directory")
	if spec := c.String("from"); spec != "" {
		from, err = parseRelativeTime(spec, time.Now())
		if err != nil {
			return "", time.Time{}, "", fmt.Errorf("invalid --from: %w", err)
		}
	}
	initialFilter = c.String("filter")
	return directory, from, initialFilter, nil
}

// parseRelativeTime parses "now" or "now-<N>(s|m|h|d|w)", the same grammar
// the filter language uses for date literals.
func parseRelativeTime(spec string, now time.Time) (time.Time, error) {
	if spec == "now" {
		return now, nil
	}
	if len(spec) > 4 && spec[:4] == "now-" {
		body := spec[4:]
		unit := body[len(body)-1]
		n, err := strconv.Atoi(body[:len(body)-1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid relative time %q: %w", spec, err)
		}
		var d time.Duration
		switch unit {
		case 's':
			d = time.Duration(n) * time.Second
		case 'm':
			d = time.Duration(n) * time.Minute
		case 'h':
			d = time.Duration(n) * time.Hour
		case 'd':
			d = time.Duration(n) * 24 * time.Hour
		case 'w':
			d = time.Duration(n) * 7 * 24 * time.Hour
		default:
			return time.Time{}, fmt.Errorf("invalid relative time unit in %q", spec)
		}
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("invalid relative time %q, expected now or now-<N>(s|m|h|d|w)", spec)
}

func run(c *cli.Context) error {
	if err := validateFlags(c); err != nil {
		return err
	}

	directory, from, initialFilter, err := resolveSession(c)
	if err != nil {
		return err
	}
	if _, err := os.Stat(directory); err != nil {
		return fmt.Errorf("log directory %q: %w", directory, err)
	}

	records, registry, err := ingestor.Ingest(directory, from, os.Stderr)
	if err != nil {
		return fmt.Errorf("starting ingestor: %w", err)
	}
	defer registry.Close()

	heatmapOut := c.String("heatmap-out")
	forward := records
	var timesMu sync.Mutex
	var times []time.Time
	if heatmapOut != "" {
		tee := make(chan *ingestor.RecordHandle)
		go func() {
			defer close(tee)
			for r := range records {
				timesMu.Lock()
				times = append(times, r.Time())
				timesMu.Unlock()
				tee <- r
			}
		}()
		forward = tee
	}

	coll := collection.New(forward)
	defer coll.Close()
	model := uiadapter.New(coll)

	app := tui.New(model, initialFilter)
	runErr := app.Run()

	if heatmapOut != "" {
		timesMu.Lock()
		snapshot := append([]time.Time(nil), times...)
		timesMu.Unlock()
		if err := heatmap.PlotActivity(snapshot, heatmapOut); err != nil {
			fmt.Fprintf(os.Stderr, "writing activity heatmap to %s: %v\n", heatmapOut, err)
		}
	}

	return runErr
}
