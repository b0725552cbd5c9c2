package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/akyairhashvil/nudge/internal/config"
	"github.com/akyairhashvil/nudge/internal/models"
	"github.com/akyairhashvil/nudge/internal/report"
	"github.com/akyairhashvil/nudge/internal/server"
	"github.com/akyairhashvil/nudge/internal/tui"
	"github.com/akyairhashvil/nudge/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func newRootCmd() *cobra.Command {
	var theme string
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Recurring alarms that come back when they are due",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), theme)
		},
	}
	root.Flags().StringVar(&theme, "theme", "default", "colour theme (default, dracula)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive alarm list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), theme)
		},
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "default", "colour theme (default, dracula)")

	root.AddCommand(
		tuiCmd,
		newServeCmd(),
		newScanCmd(),
		newListCmd(),
		newPendingCmd(),
		newReportCmd(),
		newExportCmd(),
		newAuthorizeCmd(),
	)
	return root
}

// withApp loads config, wires the app and runs fn with the worker alive.
func withApp(ctx context.Context, opts appOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := openApp(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.run(ctx, func(ctx context.Context) error {
		return fn(ctx, a)
	})
}

func runTUI(ctx context.Context, theme string) error {
	relay := &tui.Relay{}
	return withApp(ctx, appOptions{logToFile: true, restore: true, observer: relay.Observe}, func(ctx context.Context, a *app) error {
		a.gw.SetPresenter(relay)
		// Ask before the program takes over the terminal.
		if _, err := a.gw.RequestAuthorization(ctx); err != nil {
			a.logger.Warn("request notification authorization", zap.Error(err))
		}
		model := tui.NewModel(ctx, a.sched,
			tui.WithTheme(theme),
			tui.WithLocation(a.calc.Location()))
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
		relay.Attach(p)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler with the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), appOptions{restore: true}, func(ctx context.Context, a *app) error {
				if err := a.sched.OnProcessReady(ctx); err != nil {
					return err
				}
				if addr == "" {
					addr = a.cfg.ListenAddr
				}
				return server.New(a.sched, a.gw, a.logger.Named("http")).ListenAndServe(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $NUDGE_LISTEN_ADDR)")
	return cmd
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Activate every alarm that is due and re-arm the rest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), appOptions{restore: true}, func(ctx context.Context, a *app) error {
				activated, err := a.sched.Scan(ctx)
				if err != nil {
					return err
				}
				if err := a.sched.OnProcessReady(ctx); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d alarm(s) activated\n", len(activated))
				for _, al := range activated {
					fmt.Fprintf(out, "  %s  %s\n", al.ID, al.DisplayText)
				}
				return nil
			})
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the alarm list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), appOptions{}, func(ctx context.Context, a *app) error {
				alarms, err := a.sched.List(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderAlarmTable(alarms, a.calc.Location(), terminalWidth(cmd.OutOrStdout())))
				return nil
			})
		},
	}
}

func newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List undelivered notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), appOptions{}, func(ctx context.Context, a *app) error {
				pending, err := a.sched.Pending(ctx)
				if err != nil {
					return err
				}
				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("ID", "TITLE", "FIRES AT", "IMAGE")
				for _, p := range pending {
					image := "no"
					if p.HasImage {
						image = "yes"
					}
					t.Row(p.ID, p.Title, p.FireAt.In(a.calc.Location()).Format("Mon 2006-01-02 15:04"), image)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.String())
				return nil
			})
		},
	}
}

func newReportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF of the alarm schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), appOptions{}, func(ctx context.Context, a *app) error {
				alarms, err := a.sched.List(ctx)
				if err != nil {
					return err
				}
				now := time.Now()
				path := out
				if path == "" {
					path = filepath.Join(util.ReportsDir(config.AppName), fmt.Sprintf("report_%s.pdf", now.Format("2006-01-02")))
				}
				if err := writeFile(path, func(w io.Writer) error {
					return report.WritePDF(w, alarms, now, a.calc.Location())
				}); err != nil {
					return err
				}
				abs, _ := filepath.Abs(path)
				fmt.Fprintf(cmd.OutOrStdout(), "PDF report generated: %s\n", abs)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default in the documents folder)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export alarms as an iCalendar file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), appOptions{}, func(ctx context.Context, a *app) error {
				alarms, err := a.sched.List(ctx)
				if err != nil {
					return err
				}
				encode := func(w io.Writer) error {
					return report.WriteICal(w, alarms, a.calc, time.Now())
				}
				if out == "" || out == "-" {
					return encode(cmd.OutOrStdout())
				}
				return writeFile(out, encode)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newAuthorizeCmd() *cobra.Command {
	var grant, deny bool
	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Record the notification permission answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if grant == deny {
				return errors.New("pass exactly one of --grant or --deny")
			}
			return withApp(cmd.Context(), appOptions{}, func(ctx context.Context, a *app) error {
				if err := a.gw.SetAuthorization(ctx, grant); err != nil {
					return err
				}
				if grant {
					// Arm whatever was skipped while notifications were off.
					if err := a.sched.OnProcessReady(ctx); err != nil {
						return err
					}
				}
				settings, err := a.gw.Settings(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "notifications: %s\n", settings.Status)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&grant, "grant", false, "allow notifications")
	cmd.Flags().BoolVar(&deny, "deny", false, "deny notifications")
	return cmd
}

func writeFile(path string, write func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 100
}

func renderAlarmTable(alarms []models.Alarm, loc *time.Location, width int) string {
	textWidth := util.Clamp(width-60, config.MinTitleWidth, config.TargetTitleWidth*2)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "ALARM", "REPEATS", "STATE", "NEXT")
	for _, a := range alarms {
		next := ""
		if at, ok := a.NextActivation(); ok {
			next = at.In(loc).Format("Mon 2006-01-02 15:04")
		}
		t.Row(a.ID[:min(8, len(a.ID))], ansi.Truncate(a.DisplayText, textWidth, config.TruncationSuffix),
			a.Recurrence.String(), string(a.Section()), next)
	}
	return t.String()
}
