// Command klinika-admin is a terminal client for the clinic-directory admin
// session lifecycle: phone-code sign-in, session inspection, and sign-out.
//
// Configuration sources, in precedence order: flags, KLINIKA_* environment
// variables, ~/.config/klinika-admin/config.yaml, built-in defaults. The
// session token persists in a bbolt file next to the config unless --memory
// is given.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "klinika-admin",
		Short:   "Clinic-directory admin session client",
		Version: version,
		Long: `klinika-admin manages an admin session against the clinic-directory
gateway: request a phone sign-in code, verify it, inspect the current
session, and sign out.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("base-url", "", "gateway base URL (overrides config)")
	rootCmd.PersistentFlags().Bool("memory", false, "keep the session token in memory only")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	rootCmd.AddCommand(loginCommand())
	rootCmd.AddCommand(logoutCommand())
	rootCmd.AddCommand(whoamiCommand())
	rootCmd.AddCommand(metricsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
