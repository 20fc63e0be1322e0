// rptlog-demo drives a report log from several producer goroutines and prints
// it on the console: every producer reports transient progress (coalesced
// Status entries) with occasional warnings and errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abyssdigger/rptlog"
	"golang.org/x/sync/errgroup"
)

// stdoutInspector prints inspected entries instead of opening a dialog.
type stdoutInspector struct{}

func (stdoutInspector) ShowEntry(details string) error {
	_, err := fmt.Fprintf(os.Stdout, "\n%s\n", details)
	return err
}

func (stdoutInspector) CopyText(text string) error { return nil }

func main() {
	appConfigFn := attachFlags()
	flag.Parse()
	cfg, err := appConfigFn()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading configuration:", err)
		os.Exit(1)
	}

	opts := rptlog.DefaultOptions()
	opts.Capacity = cfg.Capacity
	opts.Inspector = stdoutInspector{}
	rlog := rptlog.InitAndStart(opts)
	defer rlog.StopAndWait()

	console := rptlog.NewConsoleObserver(os.Stdout, os.Stderr)
	if cfg.NoColor {
		console.SetSeverityColor(nil)
	}
	if cfg.ShowIcons {
		console.ShowIcons()
	}
	if _, err := rlog.Subscribe(console); err != nil {
		fmt.Fprintln(os.Stderr, "error subscribing console:", err)
		os.Exit(1)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for p := range cfg.Producers {
		ch := rlog.NewChannel("worker-" + strconv.Itoa(p+1))
		g.Go(func() error { return produce(ctx, ch, cfg.Steps, cfg.Interval) })
	}
	if err := g.Wait(); err != nil {
		rlog.Error("demo", err.Error())
	}
	rlog.Status("demo", "")
	rlog.Info("demo", "all producers finished")
	rlog.Sync()

	entries := rlog.Snapshot()
	fmt.Printf("\nentries: %d, warnings: %d, errors: %d\n", len(entries), rlog.WarningCount(), rlog.ErrorCount())
	if len(entries) > 0 {
		rlog.Inspect(entries[len(entries)-1])
	}
}

func produce(ctx context.Context, ch *rptlog.Channel, steps int, interval time.Duration) error {
	ch.Info("started")
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		ch.Status("progress " + strconv.Itoa(i*100/steps) + "%")
		switch {
		case i%7 == 0:
			fmt.Fprintf(ch.Lvl(rptlog.SEV_ERROR), "step %d failed, retrying", i)
		case i%3 == 0:
			ch.Warning("step " + strconv.Itoa(i) + " is slow")
		}
	}
	ch.Debug("done")
	return nil
}
