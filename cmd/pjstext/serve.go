package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/urfave/cli/v2"

	"github.com/tomokiyo/pjsbookshelf/pkg/api"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := configFrom(c)
			if err != nil {
				return err
			}
			log := logger.New()

			deps, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			log.Info("glossaries loaded", logger.Data{"count": deps.Glossary.DictCount(), "entries": deps.Glossary.TotalEntries()})

			e, err := api.New(api.NewEndpoints(deps))
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           e,
				ReadHeaderTimeout: 3 * time.Second,
			}

			// SIGHUP reloads the glossaries in place.
			sighup := make(chan os.Signal, 1)
			signal.Notify(sighup, syscall.SIGHUP)
			defer signal.Stop(sighup)
			go func() {
				for range sighup {
					if err := deps.Glossary.Reload(); err != nil {
						log.Err(err).Error("glossary reload failed")
						continue
					}
					log.Info("glossaries reloaded", logger.Data{"count": deps.Glossary.DictCount(), "entries": deps.Glossary.TotalEntries()})
				}
			}()

			graceful := signals.Setup()

			go func() {
				log.Info("server started", logger.Data{"addr": cfg.Addr, "version": version})
				err := srv.ListenAndServe()
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Err(err).Fatal("server stopped")
				}
				log.Info("server stopped")
			}()

			<-graceful
			log.Info("starting graceful shutdown")

			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Err(err).Error("server shutdown error")
				return errors.WithStack(err)
			}
			log.Info("server shutdown")
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the tools over MCP on stdin/stdout",
		Action: func(c *cli.Context) error {
			cfg, err := configFrom(c)
			if err != nil {
				return err
			}
			deps, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			deps.Silent = true
			srv := api.NewMCPServer("pjstext", version, api.NewEndpoints(deps))
			return errors.WithStack(server.ServeStdio(srv))
		},
	}
}
