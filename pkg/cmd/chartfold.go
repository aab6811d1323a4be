// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"

	"chartfold.dev/chartfold/pkg/version"
)

type ChartfoldOptions struct{}

func NewDefaultChartfoldOptions() *ChartfoldOptions {
	return &ChartfoldOptions{}
}

func NewDefaultChartfoldCmd() *cobra.Command {
	return NewChartfoldCmd(NewDefaultChartfoldOptions())
}

func NewChartfoldCmd(o *ChartfoldOptions) *cobra.Command {
	cmd := NewRenderCmd(NewRenderOptions())

	cmd.Use = "chartfold"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "chartfold renders configuration templates"
	cmd.Long = `chartfold renders configuration manifests from templates
combined with layered value files, named template definitions and an
optional snapshot of cluster state for lookup queries.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(NewRenderCmd(NewRenderOptions())) // render as explicit subcommand

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
