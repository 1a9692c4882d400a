package cli

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	port    string
	envFile string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "quiz-signup",
		Short:        "Signup and email verification API for the quiz app",
		SilenceUsage: true,
	}
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("No %s file found, reading from environment", envFile)
		}
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")
	cmd.AddCommand(NewServeCmd(&port))
	cmd.AddCommand(NewBootstrapCmd())
	return cmd
}
