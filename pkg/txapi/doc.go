// Package txapi provides the types, interfaces, and helpers for working
// with TXAPI backends: HTTP CRUD servers that run every read and write
// inside a backend-held database session, committed or rolled back
// around each logical call.
//
// # Overview
//
// The txapi package defines the argument bag (Args), the response
// envelope (Envelope, Info, Record), the client interfaces
// (Client, SessionsClient, CollectionClient, Module), the resource
// registry, list options, pagination helpers, and error types. A
// concrete implementation of these interfaces is provided by the
// txclient package, which wires configuration, transport, and
// credentials. Most consumers should import txclient to construct a
// client and then work through the interfaces exposed here.
//
// Getting a client
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
//	  cli, err := txclient.New(&txapi.Config{Endpoint: "https://api.example.com", APIKey: "0"})
//	  if err != nil { log.Fatal(err) }
//
//	  books, err := cli.AddCollection("book")
//	  if err != nil { log.Fatal(err) }
//
//	  // Create inside an automatic one-shot session
//	  env, err := books.Create(ctx, txapi.Args{"title": "Dune"}, "")
//	  if err != nil { log.Fatal(err) }
//	  _ = env
//	}
//
// # Sessions
//
// Every operation takes a session id. Passing "" runs the call in a
// temporary session: the client acquires one, performs the call, then
// commits it when the backend reports success and rolls it back
// otherwise. Passing an explicit id (from Sessions().Acquire) groups
// several calls into one transaction that the caller finishes with
// Sessions().Commit or Sessions().Rollback:
//
//	session, err := cli.Sessions().Acquire(ctx)
//	if err != nil { log.Fatal(err) }
//	_, err = books.Create(ctx, txapi.Args{"title": "Dune"}, session)
//	if err != nil { log.Fatal(err) }
//	_, err = cli.Sessions().Commit(ctx, session)
//
// # Queries and pagination
//
// Use ListOptions to express list controls (page, page length, sort
// field, match text, model filters). PageIterator and the FetchAll
// helpers walk multi-page results:
//
//	it := txapi.NewPageIterator(ctx, books, txapi.NewListOptions().WithPageLength(50), "")
//	for it.HasNext() {
//	  records, err := it.Next()
//	  if err != nil { break }
//	  _ = records
//	}
//
// # Errors
//
// Backend-reported failures on collection traffic come back as data:
// the returned Envelope carries Success=false and the failure code and
// message in Info. Go errors are reserved for usage mistakes (sentinels
// such as ErrReservedArgument and ErrMissingID), protocol violations
// (ProtocolError), transport failures, and failed session finalization.
// Direct session operations convert backend failures to APIFailure;
// IsNotFound, IsUnauthorized, and IsConflict branch on its code.
package txapi
