package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/five82/logglance/internal/app"
	"github.com/five82/logglance/internal/charset"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	encoding := flag.String("encoding", "", "force an encoding instead of detecting it")
	restrict := flag.String("restrict", "", "size gate policy for large files: ask, always or never")
	printMode := flag.Bool("print", false, "follow the files to stdout instead of starting the UI")
	listEncodings := flag.Bool("encodings", false, "list the encodings accepted by -encoding and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: logglance [flags] FILE...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listEncodings {
		names := make([]string, 0, len(charset.Available()))
		for _, enc := range charset.Available() {
			names = append(names, enc.Name())
		}
		fmt.Println(strings.Join(names, "\n"))
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Paths:      flag.Args(),
		Encoding:   *encoding,
		Restrict:   *restrict,
		Print:      *printMode,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "logglance: %v\n", err)
		return 1
	}
	return 0
}
