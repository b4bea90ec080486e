package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/medbook_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/medbook_backend/cmd/system"
	workercmd "github.com/Alijeyrad/medbook_backend/cmd/worker"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "medbook",
	Short: "Medbook appointment booking backend for medical clinics.",
	Long: `Medbook serves a clinic's appointment booking API: patients pick a free slot
from the day's grid, admins review, confirm, reschedule or cancel bookings.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(workercmd.NewWorkerCommand())
}
