package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"pkg.jsn.cam/banners/pkg/generator"
	"pkg.jsn.cam/banners/pkg/wordlist"
)

/*generates banner rotator config rows: {url};{shows_amount};{category}...*/

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bannergen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	wordsPath := fs.String("words", wordlist.DefaultPath, "Word list file, one category per line")
	seed := fs.Uint64("seed", 0, "Random seed (0 picks a random one)")
	showProgress := fs.Bool("progress", false, "Draw a progress bar on stderr")
	verbose := fs.Bool("v", false, "Log a summary when done")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bannergen [flags] rows_num\n")
		fmt.Fprintf(stderr, "Writes %s\n", generator.NewBannerGenerator(nil).Description())
		fs.PrintDefaults()
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *verbose {
		log.SetLevel(logrus.InfoLevel)
	}

	rows, err := generator.ParseRowCount(fs.Arg(0))
	if err == nil && fs.NArg() > 1 {
		err = fmt.Errorf("%w: unexpected arguments %q", generator.ErrConfiguration, fs.Args()[1:])
	}
	if err != nil {
		fmt.Fprintf(stderr, "bannergen: %v\n", err)
		fs.Usage()
		return exitUsage
	}

	words, err := wordlist.Load(*wordsPath)
	if err != nil {
		log.Errorf("[GENERATOR] %v", err)
		return exitError
	}

	g := generator.NewBannerGenerator(words)
	g.Init(generator.NewRand(*seed))

	var bar *progressbar.ProgressBar
	var progress generator.Progress
	if *showProgress {
		bar = progressbar.NewOptions64(rows,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("generating rows"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		progress = bar
	}

	out := bufio.NewWriter(stdout)
	start := time.Now()
	stats, runErr := generator.Run(g, out, rows, progress)
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if runErr != nil {
		log.Errorf("[GENERATOR] %v", runErr)
		return exitError
	}

	log.Infof("[GENERATOR] wrote %s rows (%s) from %s words in %v",
		humanize.Comma(stats.Rows),
		humanize.Bytes(uint64(stats.Bytes)),
		humanize.Comma(int64(len(words))),
		time.Since(start).Round(time.Millisecond))
	return exitOK
}
