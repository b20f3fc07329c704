package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cheynewallace/tabby"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/pavanmanishd/stackarena"
	"github.com/pavanmanishd/stackarena/internal/trace"
)

// replayCommand is the kingpin command that replays a trace file.
type replayCommand struct {
	traceFile string
	logLevel  string
	metrics   bool

	out io.Writer
}

// Register is used to register the command to a parent command.
func (c *replayCommand) Register(app *kingpin.Application) {
	app.Flag("trace.file", "YAML trace of alloc/free ops to replay.").Required().StringVar(&c.traceFile)
	app.Flag("log.level", "Only log messages with the given severity or above.").Default("info").EnumVar(&c.logLevel, "debug", "info", "warn", "error")
	app.Flag("metrics", "Print the final arena metrics in Prometheus text format.").BoolVar(&c.metrics)
	app.Action(c.run)
}

func (c *replayCommand) run(_ *kingpin.ParseContext) error {
	logger := newLogger(os.Stderr, c.logLevel)
	if c.out == nil {
		c.out = os.Stdout
	}

	f, err := trace.Load(c.traceFile)
	if err != nil {
		return err
	}
	a, err := f.NewArena(stackarena.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "unable to create arena")
	}
	defer func() {
		if err := a.Release(); err != nil {
			level.Warn(logger).Log("msg", "failed to release arena", "err", err)
		}
	}()

	level.Info(logger).Log("msg", "replaying trace", "file", c.traceFile, "capacity", humanize.IBytes(uint64(f.Capacity)), "ops", len(f.Ops))
	steps, err := trace.Replay(a, f.Ops, logger)
	printSteps(c.out, steps)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, a.Metrics())

	if c.metrics {
		fmt.Fprintln(c.out)
		return writeMetrics(c.out, a)
	}
	return nil
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(lvl, level.InfoValue())))
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}

func printSteps(w io.Writer, steps []trace.Step) {
	t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("STEP", "OP", "ID", "SIZE", "ALIGN", "OUTCOME", "OFFSET", "USED", "AVAILABLE")
	for _, s := range steps {
		align, offset := "", "-"
		if s.Op.Op == trace.OpAlloc {
			align = strconv.Itoa(s.Align)
		}
		if s.Offset >= 0 {
			offset = strconv.Itoa(s.Offset)
		}
		size := ""
		if s.Op.Size > 0 {
			size = humanize.IBytes(uint64(s.Op.Size))
		}
		t.AddLine(s.Index, s.Op.Op, s.Op.ID, size, align, s.Outcome, offset, s.Used, s.Available)
	}
	t.Print()
}

func writeMetrics(w io.Writer, a *stackarena.Arena) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(stackarena.NewCollector(a, nil))
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather arena metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "write arena metrics")
		}
	}
	return nil
}
