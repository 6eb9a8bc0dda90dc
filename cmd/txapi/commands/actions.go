package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewActionsCommand creates the actions command.
func NewActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions [COLLECTION...]",
		Short: "Show the client action directory",
		Long: `Display every action the client can reach and its path template.

The built-in session module is always present. Collections named as
arguments are registered before the directory is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			for _, name := range args {
				if _, err := client.AddCollection(name); err != nil {
					return err
				}
			}

			return renderActions(client.Actions(), viper.GetString("output"))
		},
	}
}
