package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akyairhashvil/nudge/internal/config"
	"github.com/akyairhashvil/nudge/internal/database"
	"github.com/akyairhashvil/nudge/internal/notify"
	"github.com/akyairhashvil/nudge/internal/recurrence"
	"github.com/akyairhashvil/nudge/internal/scheduler"
	"github.com/akyairhashvil/nudge/internal/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// app holds the wired process: store, gateway and scheduler.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *database.Database
	gw     *notify.LocalGateway
	sched  *scheduler.Scheduler
	calc   *recurrence.Calculator
}

type appOptions struct {
	logToFile bool
	// restore re-arms stored notification requests. Only long-running
	// commands and scan deliver them.
	restore  bool
	observer scheduler.Observer
	in       io.Reader
	out      io.Writer
}

func openApp(ctx context.Context, cfg config.Config, opts appOptions) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	logFile := ""
	if opts.logToFile {
		logFile = cfg.LogPath()
	}
	logger, err := util.NewLogger(cfg.LogLevel, logFile)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	if n := cleanupStaleAttachments(os.TempDir(), time.Now().Add(-staleAttachmentAge)); n > 0 {
		logger.Info("removed stale notification attachments", zap.Int("count", n))
	}

	calc, err := cfg.Calculator()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.DBPath(), database.WithTimeout(cfg.DBTimeout))
	if err != nil {
		return nil, err
	}

	in, out := opts.in, opts.out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	gw := notify.NewLocalGateway(db,
		notify.WithGatewayLogger(logger.Named("gateway")),
		notify.WithAuthorizer(promptAuthorizer(in, out, cfg.AutoGrant)))

	schedOpts := []scheduler.Option{
		scheduler.WithLogger(logger.Named("scheduler")),
		scheduler.WithCalculator(calc),
	}
	if opts.observer != nil {
		schedOpts = append(schedOpts, scheduler.WithObserver(opts.observer))
	}
	sched := scheduler.New(db, gw, schedOpts...)
	gw.SetDelegate(sched)
	if opts.restore {
		if err := gw.Restore(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("restore pending notifications: %w", err)
		}
	}

	return &app{cfg: cfg, logger: logger, db: db, gw: gw, sched: sched, calc: calc}, nil
}

// run keeps the scheduler worker alive while fn executes.
func (a *app) run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.sched.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		err := fn(gctx)
		// No new deliveries once fn is done; requests added from here on
		// stay stored for the next Restore.
		a.gw.Close()
		a.sched.Wait()
		return err
	})
	return g.Wait()
}

func (a *app) Close() {
	a.gw.Close()
	util.LogError("close database", a.db.Close())
	_ = a.logger.Sync()
}

// promptAuthorizer asks on the terminal. Without one the configured answer
// is used.
func promptAuthorizer(in io.Reader, out io.Writer, autoGrant bool) notify.Authorizer {
	return func(ctx context.Context) (bool, error) {
		f, ok := in.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return autoGrant, nil
		}
		fmt.Fprint(out, "Allow nudge to show alarm notifications? [Y/n] ")
		answer := make(chan string, 1)
		go func() {
			line, _ := bufio.NewReader(in).ReadString('\n')
			answer <- line
		}()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(config.PromptTimeout):
			fmt.Fprintln(out)
			return autoGrant, nil
		case line := <-answer:
			return parseAnswer(line), nil
		}
	}
}

func parseAnswer(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	}
	return false
}

const staleAttachmentAge = time.Hour

// cleanupStaleAttachments removes icon files a crashed run left behind.
// Files modified after cutoff may belong to a live process and are kept.
func cleanupStaleAttachments(dir string, cutoff time.Time) int {
	matches, err := filepath.Glob(filepath.Join(dir, "nudge-icon-*.png"))
	if err != nil {
		return 0
	}
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed
}
