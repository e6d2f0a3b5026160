// Package fetchargs converts the loosely-typed named arguments of a query
// resolver into the typed values a data-fetching backend needs.
//
// A resolver receives its arguments as a name to value mapping (an
// args.Environment). This package provides four conversions over it:
//
//   - Argument: a scalar argument or a default
//   - Object: a structured argument mapped into a typed value
//   - Date: a leniently parsed date (nil plus a warning when malformed)
//   - BooleanCondition: the root node of a boolean condition tree
//
// # Quick Start
//
//	f, err := fetchargs.New(fetchargs.Config{
//	    Registry: condition.DefaultRegistry(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	func resolveEvents(ctx context.Context, env args.Environment) (*Events, error) {
//	    limit := fetchargs.Argument(env, "limit", 50)
//	    since := f.Date(env, "since") // nil means "no date filter"
//
//	    filter, err := f.EventFilter(env, "filter")
//	    if err != nil {
//	        return nil, fetchargs.ToStatus(err)
//	    }
//	    ...
//	}
//
// # Error Classes
//
// Failures fall into three classes that callers tell apart with errors.Is:
//
//   - coerce.ErrCoercion: the client sent a structured argument of the
//     wrong shape (gRPC InvalidArgument)
//   - condition.ErrConfiguration: the condition-type registry cannot provide
//     a required type (gRPC Internal)
//   - malformed dates never fail; they are reported on the logger at WARN
//
// # gRPC Integration
//
// Arguments can travel as a MessagePack map in the "x-fetch-arguments-bin"
// metadata header. ServerOptions installs interceptors that decode the
// header into the request context and translate returned errors with
// ToStatus:
//
//	grpcServer := grpc.NewServer(fetchargs.ServerOptions(f)...)
//
// # Logging
//
// The package logs through Config.Logger. When no logger is configured, a
// text logger on stderr is created at Config.LogLevel.
//
// # Concurrency
//
// A Fetcher is immutable after New and safe for concurrent use. All
// operations are synchronous.
package fetchargs
