package cmd

import (
	"fmt"

	"books/config"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var (
	RootCmd = &cobra.Command{
		Use:   "books",
		Short: "book records web application",
		Long: fmt.Sprintf(`books (v%s)

Lists, creates, edits and deletes book records through server-rendered HTML
forms. Configuration is read from flags, from BOOKS_<FLAG> environment
variables (e.g. BOOKS_STORE=postgres) and from .env files.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of books",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("books v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(config.InitConfig)
	config.SetupFlags(RootCmd)

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(MigrateCmd)
	RootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return RootCmd.Execute()
}

// loadConfig binds the command's flags and reads the resulting configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.BindFlags(cmd); err != nil {
		return nil, err
	}
	return config.Load()
}
