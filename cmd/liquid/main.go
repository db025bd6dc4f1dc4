// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"carvel.dev/liquid/pkg/cmd"
	uierrs "github.com/cppforlife/go-cli-ui/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "liquid: Error: %s\n", uierrs.NewMultiLineError(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	command, err := cmd.NewDefaultLiquidCmd()
	if err != nil {
		return err
	}
	return command.ExecuteContext(ctx)
}
