package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/hooks"
	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/scaffold"
	"git.home.luguber.info/inful/sitegen/internal/server"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
	"git.home.luguber.info/inful/sitegen/internal/version"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Build struct {
	} `cmd:"" help:"Build the site into the output directory"`

	Serve struct {
		Port    int  `short:"p" help:"Port to serve the site on" default:"8080"`
		NoWatch bool `help:"Serve the existing output without rebuilding on changes"`
	} `cmd:"" help:"Build, serve and rebuild the site on changes"`

	Deploy struct {
	} `cmd:"" help:"Build the site and run the deploy hook"`

	Create struct {
		Collection string `arg:"" help:"Collection to add the item to"`
		Title      string `arg:"" help:"Title of the new item"`
		Layout     string `short:"l" help:"Layout template for the new item"`
	} `cmd:"" help:"Create a new content item with front matter filled in"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Vars{"version": version.Version})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	errAdapter := siteerr.NewCLIAdapter(CLI.Verbose, logger)

	if kctx.Command() == "init" {
		errAdapter.HandleError(config.Init(CLI.Config, CLI.Init.Force))
		return
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errAdapter.HandleError(err)
		return
	}

	switch kctx.Command() {
	case "build":
		errAdapter.HandleError(runBuild(cfg))
	case "serve":
		errAdapter.HandleError(runServe(cfg, CLI.Serve.Port, !CLI.Serve.NoWatch))
	case "deploy":
		errAdapter.HandleError(runDeploy(cfg))
	case "create <collection> <title>":
		errAdapter.HandleError(runCreate(cfg, CLI.Create.Collection, CLI.Create.Title, CLI.Create.Layout))
	default:
		kctx.Fatalf("unknown command: %s", kctx.Command())
	}
}

func runBuild(cfg *config.Config) error {
	svc := build.NewService(cfg)
	result, err := svc.Run(context.Background())
	if err != nil {
		return err
	}
	for _, buildErr := range result.Errors {
		slog.Warn("build finished with error", logfields.Error(buildErr))
	}
	return nil
}

func runServe(cfg *config.Config, port int, watchChanges bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewPrometheusRecorder(nil)
	svc := build.NewService(cfg, build.WithRecorder(recorder))

	if _, err := svc.Run(ctx); err != nil {
		// An initial build failure is not fatal in serve mode; the watcher
		// rebuilds on the next change, same as during editing.
		slog.Error("initial build failed", logfields.Error(err))
	}

	srvErr := make(chan error, 1)
	srv := server.New(cfg, port, server.WithMetrics(recorder))
	go func() { srvErr <- srv.Run(ctx) }()

	if watchChanges {
		w := watch.New(cfg, func(ctx context.Context) error {
			_, err := svc.Run(ctx)
			return err
		}, watch.WithRecorder(recorder))
		if err := w.Run(ctx); err != nil {
			return err
		}
	} else {
		<-ctx.Done()
	}
	return <-srvErr
}

func runDeploy(cfg *config.Config) error {
	svc := build.NewService(cfg)
	if _, err := svc.Run(context.Background()); err != nil {
		return err
	}
	return svc.RunHook(hooks.Deploy)
}

func runCreate(cfg *config.Config, collection, title, layout string) error {
	svc := build.NewService(cfg)
	path, err := scaffold.CreateItem(cfg, scaffold.Options{
		Collection: collection,
		Title:      title,
		Layout:     layout,
	})
	if err != nil {
		return err
	}
	slog.Info("content created", logfields.Path(path))
	return svc.RunHook(hooks.CreateContent)
}
