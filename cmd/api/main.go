package main

// @title Moranda APIs
// @version 1.0
// @description Aside close-out bot: Slack events webhook and admin API.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:9089
// @BasePath /
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
import (
	"context"
	"os"

	_ "moranda/docs"
	protocol "moranda/protocal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var opts protocol.Options

var rootCmd = &cobra.Command{
	Use:           "moranda",
	Short:         "Slack bot that closes out asides",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (Slack events webhook and admin API)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return protocol.ServeHTTP(opts)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the documents table in PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		return protocol.Migrate(opts)
	},
}

var syncRosterCmd = &cobra.Command{
	Use:   "sync-roster",
	Short: "Fetch the team roster from Slack and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return protocol.SyncRoster(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "./configs", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.Env, "env", "", "the environment to use")
	rootCmd.AddCommand(serveCmd, migrateCmd, syncRosterCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Println(err)
		os.Exit(1)
	}
}
