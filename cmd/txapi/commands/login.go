package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/txapi-io/txapi-client/internal/constants"
	"github.com/txapi-io/txapi-client/pkg/txapi"
	"github.com/txapi-io/txapi-client/pkg/txclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		apiKey      string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a transactional API",
		Long:  "Verify an endpoint and API key against the backend and store them in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get API endpoint
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint: ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
			}

			if apiEndpoint == "" {
				return constants.ErrNoEndpointConfigured
			}

			if apiKey == "" && !cmd.Flags().Changed("api-key") {
				fmt.Print("API key (empty for anonymous access): ")

				byteKey, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}

				apiKey = string(byteKey)

				fmt.Println()
			}

			clientConfig := &txapi.Config{
				Endpoint: apiEndpoint,
				APIKey:   apiKey,
			}

			client, err := txclient.New(clientConfig)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Probe the backend with a throwaway session so bad
			// endpoints and rejected keys fail here, not later.
			ctx := context.Background()

			session, err := client.Sessions().Acquire(ctx)
			if err != nil {
				return fmt.Errorf("failed to connect to API: %w", err)
			}

			_, err = client.Sessions().Rollback(ctx, session, true)
			if err != nil {
				return fmt.Errorf("failed to release probe session: %w", err)
			}

			config := loadConfig()
			config.Endpoint = clientConfig.Endpoint
			config.APIKey = apiKey

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully logged in to %s\n", clientConfig.Endpoint)

			return nil
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "API key (empty for anonymous access)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Long:  "Remove the stored API key from the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = ""

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}
