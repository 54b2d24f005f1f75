package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/gui"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/server"
	"github.com/san-kum/orbitsim/internal/viz"
)

func newTUICmd(a *app) *cobra.Command {
	var theme, record string
	cmd := &cobra.Command{
		Use:         "tui",
		Short:       "interactive terminal view",
		Annotations: map[string]string{fileLogAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUIWith(theme, record)
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	cmd.Flags().StringVar(&record, "record", "orbit.gif", "GIF path written when recording stops")
	return cmd
}

func (a *app) runTUIWith(theme, record string) error {
	d, live, err := a.newDriver()
	if err != nil {
		return err
	}
	defer d.Stop()

	m := viz.NewModel(d, live, viz.Options{
		FPS:        a.cfg.Render.FPS,
		Theme:      theme,
		RecordPath: record,
		Save:       a.saveInputs,
		Logger:     a.log,
	})
	a.log.Info("starting terminal view", zap.String("theme", theme))
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// saveInputs writes the live inputs over the sim section of the config
// file in use, or orbitsim.yaml when none was given.
func (a *app) saveInputs(in driver.Inputs) (string, error) {
	path := a.configFile
	if path == "" {
		path = defaultConfigFile
	}
	cfg := *a.cfg
	cfg.SetInputs(in)
	if err := config.Save(path, &cfg); err != nil {
		return "", err
	}
	a.log.Info("settings saved", zap.String("path", path), zap.String("law", cfg.Sim.Law))
	return path, nil
}

func newGUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "gui",
		Short:       "native window view",
		Annotations: map[string]string{fileLogAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, live, err := a.newDriver()
			if err != nil {
				return err
			}
			return gui.NewApp(d, live, gui.Options{
				FPS:    a.cfg.Render.FPS,
				Width:  a.cfg.Render.Width,
				Height: a.cfg.Render.Height,
				Logger: a.log,
			}).Run()
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over a WebSocket",
		Long: `serve runs the simulation at render.fps and streams every frame to
WebSocket clients on /ws. Clients send {"type":"params",...} or
{"type":"reset"} to steer it. /equations, /reset and /metrics are served
alongside.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, addr, driver.NewLimiterScheduler(float64(a.cfg.Render.FPS)))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context, addr string, sched driver.Scheduler) error {
	var collector *metrics.Collector
	var opts []driver.Option
	if a.cfg.Server.Metrics {
		collector = metrics.NewCollector()
		opts = append(opts, driver.WithObserver(collector))
	}
	d, live, err := a.newDriver(opts...)
	if err != nil {
		return err
	}

	srv := server.New(live, server.Options{
		Addr:         addr,
		ClientBuffer: a.cfg.Server.ClientBuffer,
		Metrics:      collector,
		Logger:       a.log,
	})
	fmt.Fprintf(a.out, "serving on %s\n", addr)
	err = srv.Run(ctx, d, sched)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
