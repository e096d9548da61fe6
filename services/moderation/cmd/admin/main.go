package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "hookr-admin",
	Short:         "Operator commands for moderation and account management",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return connect()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		disconnect()
	},
}

func init() {
	rootCmd.AddCommand(
		promoteCmd,
		applicationsCmd,
		approveCmd,
		rejectCmd,
		activateCmd,
		deactivateCmd,
		takedownCmd,
		statsCmd,
	)

	applicationsCmd.Flags().StringVar(&statusFlag, "status", "pending", "application status (pending, approved, rejected)")
	applicationsCmd.Flags().IntVar(&limitFlag, "limit", 50, "maximum rows")
	approveCmd.Flags().StringVar(&commentFlag, "comment", "", "review comment shown to the applicant")
	rejectCmd.Flags().StringVar(&commentFlag, "comment", "", "review comment shown to the applicant")
}
