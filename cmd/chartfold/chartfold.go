// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	uierrs "github.com/cppforlife/go-cli-ui/errors"

	"chartfold.dev/chartfold/pkg/cmd"
)

func main() {
	rand.Seed(time.Now().UTC().UnixNano())

	command := cmd.NewDefaultChartfoldCmd()

	err := command.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chartfold: Error: %s\n", uierrs.NewMultiLineError(err))
		os.Exit(1)
	}
}
