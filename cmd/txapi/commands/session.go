package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/txapi-io/txapi-client/internal/constants"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// NewSessionCommand creates the session command group.
func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage backend sessions",
		Long: `Open, commit, and roll back backend transaction sessions.

An open session id can be passed to collection commands with --session
to batch several calls into one transaction. The backend rolls back and
reaps sessions left idle for 30 minutes.`,
	}

	cmd.AddCommand(newSessionOpenCommand())
	cmd.AddCommand(newSessionSaveCommand())
	cmd.AddCommand(newSessionRollbackCommand())

	return cmd
}

func newSessionOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open a new session",
		Long:  "Open a new backend session and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			session, err := client.Sessions().Acquire(context.Background())
			if err != nil {
				return err
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				return renderJSON(map[string]string{"session": session})
			case constants.FormatYAML:
				return renderYAML(map[string]string{"session": session})
			default:
				_, _ = fmt.Fprintf(os.Stdout, "Session %s opened\n", session)
				_, _ = fmt.Fprintf(os.Stdout, "Pass it to other commands with --session %s\n", session)

				return nil
			}
		},
	}
}

func newSessionSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "save SESSION_ID",
		Aliases: []string{"commit"},
		Short:   "Commit a session",
		Long:    "Persist all changes recorded in the session and close it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			env, err := client.Sessions().Commit(context.Background(), args[0])
			if err != nil {
				return err
			}

			return renderSessionSummary(env, viper.GetString("output"))
		},
	}
}

func newSessionRollbackCommand() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "rollback SESSION_ID",
		Short: "Roll back a session",
		Long:  "Discard all changes recorded in the session; --keep leaves it open for further use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			env, err := client.Sessions().Rollback(context.Background(), args[0], !keep)
			if err != nil {
				return err
			}

			return renderSessionSummary(env, viper.GetString("output"))
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "keep the session open after rolling back")

	return cmd
}

// renderSessionSummary prints the records a commit or rollback touched,
// grouped by action.
func renderSessionSummary(env *txapi.Envelope, output string) error {
	switch output {
	case constants.FormatJSON:
		return renderJSON(env)
	case constants.FormatYAML:
		return renderYAML(envelopeDocument(env))
	case constants.FormatTable, "":
	default:
		return fmt.Errorf("output format %q: %w", output, constants.ErrUnknownOutputFormat)
	}

	objects, err := env.SessionObjects()
	if err != nil {
		return renderEnvelopeTable(env)
	}

	total := 0
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Action", "Type", "Record")

	for _, action := range []string{txapi.ActionCreate, txapi.ActionUpdate, txapi.ActionDelete} {
		for _, object := range objects[action] {
			data, _ := json.Marshal(object.Data)
			_ = table.Append(action, object.Type, string(data))
			total++
		}
	}

	if total == 0 {
		_, _ = os.Stdout.WriteString("No recorded changes\n")

		return nil
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
