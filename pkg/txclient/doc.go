// Package txclient provides the primary entry point for constructing a
// client that implements the txapi.Client interface.
//
// It layers configuration, HTTP transport, and credential resolution on
// top of the types defined in the txapi package. Most applications
// should import txclient to build a client, then register the
// collections their backend exposes and use the returned txapi.Client
// for all traffic.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/txapi-io/txapi-client/pkg/txapi"
//	  "github.com/txapi-io/txapi-client/pkg/txclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := txclient.NewWithAPIKey("https://api.example.com/api", "secret-key")
//	  if err != nil { log.Fatal(err) }
//
//	  books, err := cli.AddCollection("book")
//	  if err != nil { log.Fatal(err) }
//
//	  // Single call in its own transaction: committed on success,
//	  // rolled back on failure.
//	  env, err := books.Create(ctx, txapi.Args{"title": "Dune"}, "")
//	  if err != nil { log.Fatal(err) }
//	  _ = env
//
//	  // Several calls in one transaction, finished explicitly.
//	  session, err := cli.Sessions().Acquire(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  _, err = books.Create(ctx, txapi.Args{"title": "Hyperion"}, session)
//	  if err != nil { log.Fatal(err) }
//
//	  _, err = cli.Sessions().Commit(ctx, session)
//	  if err != nil { log.Fatal(err) }
//	}
//
// # Credentials
//
// The backend authenticates with an X-API-KEY header. Config.APIKey
// sends a literal key, Config.APIKeyEnv reads a named environment
// variable per request, and leaving both empty sends no credentials.
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint,
// NewWithAPIKey, and NewFromEnv that wrap New with the appropriate
// configuration.
package txclient
