package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	// Credentials (ANTHROPIC_API_KEY etc.) may live in a local .env file.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "stackgrade",
		Short: "Grade a repository's use of its required packages",
	}

	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			return fmt.Errorf("invalid log level %q", levelName)
		}
		logrus.SetLevel(level)
		logrus.SetOutput(os.Stderr)
		return nil
	}

	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
