// Copyright (c) 2018 Fredrik Kuivinen, frekui@gmail.com
//
// Use of this source code is governed by the BSD-style license that can be
// found in the LICENSE file.

// Package cli holds the cobra command builders shared by the executables in
// cmd/.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version of the executables.
const Version = "0.1.0"

// NewRootCommand returns a root command for an executable.
func NewRootCommand(use, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// NewVersionCommand returns the "version" subcommand of appName.
func NewVersionCommand(appName string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of " + appName + ".",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appName+" v"+Version)
		},
	}
}

// ExecuteRoot runs rootCmd and exits with a non-zero status on error.
func ExecuteRoot(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", rootCmd.Name(), err)
		os.Exit(1)
	}
}
