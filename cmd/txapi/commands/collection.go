package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/txapi-io/txapi-client/internal/constants"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

// NewCollectionCommand creates the collection command group.
func NewCollectionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"coll"},
		Short:   "Work with backend collections",
		Long: `List, read, create, update, and delete records of a backend collection.

All subcommands accept --session to run inside an explicit session
opened with 'txapi session open'. Without it, each call runs in its own
temporary session that is committed on success and rolled back on
failure.`,
	}

	cmd.AddCommand(newCollectionListCommand())
	cmd.AddCommand(newCollectionDetailsCommand())
	cmd.AddCommand(newCollectionGetCommand())
	cmd.AddCommand(newCollectionCreateCommand())
	cmd.AddCommand(newCollectionUpdateCommand())
	cmd.AddCommand(newCollectionDeleteCommand())
	cmd.AddCommand(newCollectionActionsCommand())

	return cmd
}

// listFlags is the flag set shared by the list and details subcommands.
type listFlags struct {
	session    string
	page       int
	pageLength int
	sortBy     string
	match      string
	filters    []string
	allPages   bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.session, "session", "s", "", "explicit session id")
	cmd.Flags().IntVar(&f.page, "page", 0, "page to fetch (backend default 1)")
	cmd.Flags().IntVar(&f.pageLength, "page-length", 0, "records per page (backend default 100, max 1000)")
	cmd.Flags().StringVar(&f.sortBy, "sort-by", "", "model field to sort by (backend default id)")
	cmd.Flags().StringVar(&f.match, "match", "", "free text that must match some model field")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "exact-match model field filter (key=value, repeatable)")
	cmd.Flags().BoolVar(&f.allPages, "all", false, "fetch all pages")
}

func (f *listFlags) options() (*txapi.ListOptions, error) {
	opts := txapi.NewListOptions()

	if f.page > 0 {
		opts.WithPage(f.page)
	}

	if f.pageLength > 0 {
		opts.WithPageLength(f.pageLength)
	}

	if f.sortBy != "" {
		opts.WithSortBy(f.sortBy)
	}

	if f.match != "" {
		opts.WithMatch(f.match)
	}

	filters, err := parseFieldArgs(f.filters)
	if err != nil {
		return nil, err
	}

	for key, value := range filters {
		opts.WithFilter(key, value)
	}

	return opts, nil
}

// collectionFor builds a client and registers the named collection on
// it.
func collectionFor(name string) (txapi.CollectionClient, error) {
	client, err := createClient()
	if err != nil {
		return nil, err
	}

	collection, err := client.AddCollection(name)
	if err != nil {
		return nil, err
	}

	return collection, nil
}

func newCollectionListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list COLLECTION",
		Short: "List record ids",
		Long:  "List the record ids of a collection, one page at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := collectionFor(args[0])
			if err != nil {
				return err
			}

			opts, err := flags.options()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if flags.allPages {
				ids, err := txapi.FetchAllIDs(ctx, collection, opts, flags.session)
				if err != nil {
					return err
				}

				return renderIDs(ids, viper.GetString("output"))
			}

			env, err := collection.ListIDs(ctx, opts, flags.session)
			if err != nil {
				return err
			}

			return renderEnvelope(env, viper.GetString("output"))
		},
	}

	flags.register(cmd)

	return cmd
}

func newCollectionDetailsCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "details COLLECTION",
		Short: "List full records",
		Long:  "List the full records of a collection, one page at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := collectionFor(args[0])
			if err != nil {
				return err
			}

			opts, err := flags.options()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if flags.allPages {
				records, err := txapi.FetchAllPages(ctx, collection, opts, flags.session)
				if err != nil {
					return err
				}

				return renderRecords(records, viper.GetString("output"))
			}

			env, err := collection.ListDetails(ctx, opts, flags.session)
			if err != nil {
				return err
			}

			return renderEnvelope(env, viper.GetString("output"))
		},
	}

	flags.register(cmd)

	return cmd
}

func newCollectionGetCommand() *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "get COLLECTION ID",
		Short: "Get one record",
		Long:  "Fetch one record by id",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := collectionFor(args[0])
			if err != nil {
				return err
			}

			id, err := parseRecordID(args[1])
			if err != nil {
				return err
			}

			env, err := collection.Get(context.Background(), id, session)
			if err != nil {
				return err
			}

			return renderEnvelope(env, viper.GetString("output"))
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "explicit session id")

	return cmd
}

func newCollectionCreateCommand() *cobra.Command {
	var (
		session   string
		fieldArgs []string
	)

	cmd := &cobra.Command{
		Use:   "create COLLECTION",
		Short: "Create a record",
		Long:  "Create a record from --field key=value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldArgs(fieldArgs)
			if err != nil {
				return err
			}

			if len(fields) == 0 {
				return constants.ErrFieldRequired
			}

			collection, err := collectionFor(args[0])
			if err != nil {
				return err
			}

			env, err := collection.Create(context.Background(), fields, session)
			if err != nil {
				return err
			}

			return renderEnvelope(env, viper.GetString("output"))
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "explicit session id")
	cmd.Flags().StringArrayVarP(&fieldArgs, "field", "f", nil, "model field (key=value, repeatable)")

	return cmd
}

func newCollectionUpdateCommand() *cobra.Command {
	var (
		session   string
		fieldArgs []string
	)

	cmd := &cobra.Command{
		Use:   "update COLLECTION ID",
		Short: "Update a record",
		Long:  "Apply --field key=value pairs to one record",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldArgs(fieldArgs)
			if err != nil {
				return err
			}

			if len(fields) == 0 {
				return constants.ErrFieldRequired
			}

			collection, err := collectionFor(args[0])
			if err != nil {
				return err
			}

			id, err := parseRecordID(args[1])
			if err != nil {
				return err
			}

			env, err := collection.Update(context.Background(), id, fields, session)
			if err != nil {
				return err
			}

			return renderEnvelope(env, viper.GetString("output"))
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "explicit session id")
	cmd.Flags().StringArrayVarP(&fieldArgs, "field", "f", nil, "model field (key=value, repeatable)")

	return cmd
}

func newCollectionDeleteCommand() *cobra.Command {
	var (
		session string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "delete COLLECTION ID",
		Short: "Delete a record",
		Long:  "Delete one record by id",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := collectionFor(args[0])
			if err != nil {
				return err
			}

			id, err := parseRecordID(args[1])
			if err != nil {
				return err
			}

			if !force {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete %s %d? (y/N): ", args[0], id)

				var response string

				_, _ = fmt.Scanln(&response)

				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			env, err := collection.Delete(context.Background(), id, session)
			if err != nil {
				return err
			}

			return renderEnvelope(env, viper.GetString("output"))
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "explicit session id")
	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")

	return cmd
}

func newCollectionActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions COLLECTION",
		Short: "Show collection actions",
		Long:  "Display the operation directory of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := collectionFor(args[0])
			if err != nil {
				return err
			}

			return renderActions(collection.Actions(), viper.GetString("output"))
		},
	}
}
