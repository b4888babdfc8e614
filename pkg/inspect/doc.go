// Package inspect serves a live viste graph over HTTP.
//
// A World is single-threaded, so the inspector runs every graph operation
// on a Loop: one goroutine that owns the World and executes submitted
// functions in order.
//
//	w := viste.NewWorld(viste.WithObserver(obs))
//	loop := inspect.NewLoop(w, 64)
//	defer loop.Close()
//
//	srv, err := inspect.New(ctx, loop, inspect.WithAddress(":7070"))
//	if err != nil {
//		return err
//	}
//	return srv.ListenAndServe(ctx)
//
// The server hosts a Demo graph (a counter folded from messages and a
// sorted label set) and exposes its values, the raw graph snapshot,
// Prometheus metrics, and a websocket feed that pushes every change.
package inspect
