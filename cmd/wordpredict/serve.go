package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/wordpredict/internal/httpapi"
	"github.com/kitbuilder587/wordpredict/internal/metrics"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		metricsAddr string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the prediction endpoint over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides HTTP_ADDR)",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "metrics-addr",
				Usage:       "metrics listen address, empty to disable (overrides METRICS_ADDR)",
				Destination: &metricsAddr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			a, err := setup(ctx, reg)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			if !cmd.IsSet("addr") {
				addr = a.cfg.Server.Addr
			}
			if !cmd.IsSet("metrics-addr") {
				metricsAddr = a.cfg.Server.MetricsAddr
			}

			e := echo.New()
			e.Use(middleware.Recover())
			httpapi.NewServer(a.predictor, a.logger).Register(e)

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				a.logger.Info("starting server", zap.String("address", addr))
				sc := echo.StartConfig{
					Address: addr,
					BeforeServeFunc: func(srv *http.Server) error {
						srv.ReadHeaderTimeout = readTimeout
						return nil
					},
				}
				return sc.Start(ctx, e)
			})

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           metrics.Handler(reg),
					ReadHeaderTimeout: readTimeout,
				}
				g.Go(func() error {
					a.logger.Info("starting metrics server", zap.String("address", metricsAddr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}

			return g.Wait()
		},
	}
}
