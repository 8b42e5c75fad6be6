// Command qpickitd serves the circuit rendering API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wudi/qpickit/config"
	"github.com/wudi/qpickit/observability"
	"github.com/wudi/qpickit/observability/logruslog"
	"github.com/wudi/qpickit/render"
	"github.com/wudi/qpickit/server"
)

type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		listen     = flag.String("http", "", "Listen address (overrides config)")
		configPath = flag.String("config", "", "Path to JSON config file")
		overrides  stringList
	)
	flag.Var(&overrides, "set", "Config override as dotted path key=value (repeatable)")
	flag.Parse()

	if *listen != "" {
		overrides = append(overrides, "listen="+*listen)
	}
	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qpickitd: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "qpickitd: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log := logruslog.New(os.Stderr, cfg.LogLevel)

	pipeline := render.New(
		render.WithLogger(log.With(observability.String("component", "render"))),
		render.WithCacheSize(cfg.CacheSize),
		render.WithDefaultTimeout(cfg.Timeout),
	)
	if err := pipeline.CheckTools(context.Background()); err != nil {
		// The TikZ-only endpoints still work without the toolchain, so warn
		// instead of refusing to start.
		log.Warn("toolchain incomplete", observability.Error("err", err))
	}

	srv := server.New(pipeline,
		server.WithLogger(log.With(observability.String("component", "http"))),
		server.WithMaxConns(cfg.MaxConns),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Listen)
}
