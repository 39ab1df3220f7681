/* SPDX-License-Identifier: AGPL-3.0-only
 * Copyright (c) Benedict Schlueter
 */

package main

import (
	"flag"
	"log"
	"os"

	"go.uber.org/zap"
)

func main() {
	cfg := zap.NewDevelopmentConfig()

	debug := flag.Bool("debug", false, "enables debug output")
	flag.Parse()
	if *debug {
		cfg.Level.SetLevel(zap.DebugLevel)
	} else {
		cfg.Level.SetLevel(zap.InfoLevel)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(run(flag.Args(), zapLogger.Named("core")))
}
