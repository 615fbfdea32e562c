// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the MoneySpace CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moneyspace",
		Short: "MoneySpace - password-protected shared finance spaces",
		Long: `MoneySpace is a multi-tenant personal finance tracker built around
password-protected spaces, each with its own categories and transactions.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
