// Package errors provides coded, structured errors for viste.
//
// Two kinds of failure use this package:
//   - contract violations inside the reactive core (a stale reader token, a
//     missing dependency edge, unwrapping an unchanged result). These are
//     raised with panic and a *VisteError payload, since they indicate a bug in
//     how the caller drives the graph.
//   - recoverable failures in the tooling around the core (configuration
//     loading, the command line, the inspector). These are returned as error
//     values.
//
// # Error Codes
//
// Each error has a unique code (e.g., "E001") that maps to:
//   - A category
//   - A short message describing the error
//   - A detailed explanation
//
// # Usage
//
//	panic(errors.New("E001").
//	    WithDetail("reader 3 is not registered on node 12").
//	    WithSuggestion("Create the reader with CreateReader and destroy it exactly once"))
//
//	errors.Fprint(os.Stderr, err, errors.StyleText, true)
//	// Output:
//	// ERROR E001: Reader not found
//	//
//	//   reader 3 is not registered on node 12
//	//
//	//   Hint: Create the reader with CreateReader and destroy it exactly once
package errors
