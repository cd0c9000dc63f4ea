// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command bq runs periodic producers and consumers against one bounded
// buffer, as described by a configuration file, and logs every operation.
//
// Usage:
//
//	bq FILENAME
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"code.hybscloud.com/bq/internal/config"
	"code.hybscloud.com/bq/internal/driver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := runArgs(ctx, os.Args[0], os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// runArgs parses the command line and runs the named configuration.
// A bad command line prints the usage to stderr and returns 1.
func runArgs(ctx context.Context, name string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s FILENAME\n", name)
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	return run(ctx, fs.Arg(0), stdout)
}

// run loads the configuration at path, runs it and returns the exit status.
func run(ctx context.Context, path string, stdout io.Writer) int {
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, config.ErrNotFound):
		log.Printf("file %s not found", path)
	case errors.Is(err, config.ErrMalformed):
		fmt.Fprintf(stdout, "open %s\n", path)
		log.Printf("warning: %v", err)
	case err != nil:
		log.Print(err)
		return 1
	default:
		fmt.Fprintf(stdout, "open %s\n", path)
	}
	if err := cfg.Echo(stdout); err != nil {
		log.Print(err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("warning: %v", err)
	}

	stats, err := driver.Run(ctx, cfg, stdout)
	log.Printf("buffer: %v", stats)
	switch {
	case errors.Is(err, context.Canceled):
		log.Print("interrupted")
	case err != nil:
		log.Print(err)
		return 1
	}
	return 0
}
