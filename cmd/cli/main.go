package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/staffeye/internal/cli/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "staffeye",
	Short: "StaffEye CLI - personnel reporting administration",
	Long: `StaffEye CLI is a command-line tool for administering the personnel
reporting backend: scheduled report tasks, report history and downloads.`,
}

func init() {
	// Token storage lives in the user's home directory; a missing file just
	// means nobody has logged in yet.
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigFile(filepath.Join(home, ".staffeye.yaml"))
		viper.ReadInConfig()
	}

	// Add commands
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewScheduleCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
