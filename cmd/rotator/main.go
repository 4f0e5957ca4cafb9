package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"pkg.jsn.cam/banners/internal/config"
	"pkg.jsn.cam/banners/internal/rotator"
	"pkg.jsn.cam/banners/pkg/generator"
	"pkg.jsn.cam/banners/pkg/storage"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// startFunc runs the rotator once the command line and config are settled.
type startFunc func(cfg *config.Config, file string, log *logrus.Logger) error

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := newApp(stdout, stderr, serve).Run(args); err != nil {
		fmt.Fprintf(stderr, "rotator: %v\n", err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func newApp(stdout, stderr io.Writer, start startFunc) *cli.App {
	app := cli.NewApp()

	app.Name = "rotator"
	app.Usage = "Banners rotator"
	app.ArgsUsage = "FILE"
	app.Writer = stdout
	app.ErrWriter = stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "config file path (optional)",
		},
		cli.IntFlag{
			Name:  "port, p",
			Usage: "listening HTTP port",
			Value: 8080,
		},
		cli.StringFlag{
			Name:  "db",
			Usage: "bbolt file for shows counters (in memory when empty)",
		},
		cli.StringFlag{
			Name:  "log, l",
			Usage: "log level: debug,info,warning,error",
		},
	}

	app.Action = func(c *cli.Context) error {
		file := c.Args().First()
		if file == "" {
			_ = cli.ShowAppHelp(c)
			return fmt.Errorf("%w: banners config FILE is required", errUsage)
		}

		cfg, err := mergeConfig(c)
		if err != nil {
			return err
		}

		lv, err := logrus.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		log := logrus.New()
		log.SetOutput(stderr)
		log.SetLevel(lv)

		return start(cfg, file, log)
	}

	return app
}

// mergeConfig loads the config and lets explicitly set flags override it.
func mergeConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("port") {
		cfg.HTTP.Port = c.Int("port")
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
	}
	if c.IsSet("log") {
		cfg.Log.Level = c.String("log")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(cfg *config.Config, file string, log *logrus.Logger) error {
	store, err := openStore(cfg.Storage.Path, log)
	if err != nil {
		return err
	}
	defer store.Close()

	rt, err := loadRotator(cfg, file, store, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := rotator.NewServer(rt, rotator.NewMetrics(), log)
	return server.Serve(ctx, cfg.HTTP.Port)
}

func loadRotator(cfg *config.Config, file string, store storage.Store, log *logrus.Logger) (*rotator.Rotator, error) {
	rt := rotator.New(store, generator.NewRand(cfg.Seed), log)
	stats, err := rt.LoadFile(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}
	log.Infof("[ROTATOR] Loaded %s banners from %s (%s skipped)",
		humanize.Comma(int64(stats.Loaded)), file, humanize.Comma(int64(stats.Skipped)))

	restored, orphaned, err := rt.Reconcile()
	if err != nil {
		return nil, fmt.Errorf("reconcile shows counters: %w", err)
	}
	log.Infof("[ROTATOR] Restored %s shows counters (%s orphaned)",
		humanize.Comma(int64(restored)), humanize.Comma(int64(orphaned)))

	return rt, nil
}

func openStore(path string, log *logrus.Logger) (storage.Store, error) {
	if path == "" {
		return storage.NewMemoryStore(), nil
	}
	log.Infof("[ROTATOR] Persisting shows counters in %s", path)
	return storage.NewBboltStore(path)
}
