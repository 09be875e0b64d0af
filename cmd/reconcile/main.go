// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command reconcile applies model-proposed edits and patches to files,
// refusing anything it cannot place with certainty.
// Implements: prd010-cli R1-R5;
//
//	docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Fuzzy edit reconciliation and patch application",
		Long:  "reconcile locates drifted search/replace edits and sentinel-delimited patches in your files and applies them exactly, or not at all.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Root directory for file operations")
	rootCmd.PersistentFlags().Bool("no-git", false, "Disable git operations")
	rootCmd.PersistentFlags().Bool("no-dirty-commit", false, "Fail on a dirty work tree instead of committing it")
	rootCmd.PersistentFlags().Int("max-diff", 0, "Absolute drift budget for fuzzy edits (0 = default)")
	rootCmd.PersistentFlags().Float64("max-diff-ratio", 0, "Relative drift budget for fuzzy edits (0 = default)")
	rootCmd.PersistentFlags().Float64("tolerance", 0, "Line-hint disambiguation tolerance (0 = default, negative = exact hint only)")

	// Bind flags to viper.
	viper.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
	viper.BindPFlag("no-git", rootCmd.PersistentFlags().Lookup("no-git"))
	viper.BindPFlag("no-dirty-commit", rootCmd.PersistentFlags().Lookup("no-dirty-commit"))
	viper.BindPFlag("max-diff", rootCmd.PersistentFlags().Lookup("max-diff"))
	viper.BindPFlag("max-diff-ratio", rootCmd.PersistentFlags().Lookup("max-diff-ratio"))
	viper.BindPFlag("tolerance", rootCmd.PersistentFlags().Lookup("tolerance"))

	// Env vars: RECONCILE_WORKDIR, RECONCILE_NO_GIT, etc.
	viper.SetEnvPrefix("RECONCILE")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".reconcile")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newReplaceCmd())
	rootCmd.AddCommand(newLocateCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print reconcile version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reconcile %s\n", version)
		},
	}
}
