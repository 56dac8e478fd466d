package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LMascagni/simasm/pkg/cache"
	simerrors "github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/server"
	"github.com/LMascagni/simasm/pkg/session"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Serve live flow charts that redraw when the source changes",
		Long: `Serve live flow charts over HTTP.

Each file gets its own view. The chart is redrawn whenever the file is saved,
and clicking a label, line or section header sends a jumpToLine message to the
configured navigator (log, stream to stdout, or a Redis channel).`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: asmFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:7171)")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, paths []string, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	reg := session.NewRegistry()
	defer reg.Close()
	graphs := cache.NewMemoryCache(64)
	defer graphs.Close()
	popts := cfg.PipelineOptions()
	popts.Cache = graphs

	for _, p := range paths {
		if err := simerrors.ValidateSourcePath(p); err != nil {
			return err
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		nav, err := c.newNavigator(cmd, cfg, os.Stdout, abs)
		if err != nil {
			return err
		}
		v, err := session.Open(abs, session.Options{
			Pipeline:  popts,
			Schedule:  cfg.SchedulerConfig(),
			Navigator: nav,
			Poll:      cfg.Server.Poll.Duration,
			Logger:    c.Logger,
		})
		if err != nil {
			nav.Close()
			return err
		}
		reg.Add(v)
	}

	ctx := withLogger(cmd.Context(), c.Logger)
	g, ctx := errgroup.WithContext(ctx)

	srv := server.New(reg, c.Logger)
	g.Go(func() error { return srv.ListenAndServe(ctx, addr) })

	for _, v := range reg.List() {
		g.Go(func() error {
			err := v.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			return watchFile(ctx, v.Path, cfg.Server.Watch.Duration, func() {
				if err := v.Notify(); err != nil {
					c.Logger.Warn("notify failed", "path", v.Path, "err", err)
				}
			})
		})
	}

	printInfo("Serving %d chart(s)", len(paths))
	printKeyValue("url", StyleLink.Render("http://"+addr+"/"))
	for _, v := range reg.List() {
		printKeyValue(filepath.Base(v.Path), StyleLink.Render("http://"+addr+v.Base()+"/"))
	}
	printKeyValue("navigate", cfg.Navigate.Mode)

	if err := g.Wait(); err != nil {
		return err
	}
	return cmd.Context().Err()
}
