// Package inspect serves a read-only HTTP view of the roots tracked by a
// vtest registry: their snapshots, markup, metrics and a live websocket
// feed of lifecycle events.
//
//	srv := inspect.New(vtest.DefaultRegistry(),
//	    inspect.WithGatherer(promRegistry),
//	)
//	go srv.ListenAndServe(ctx, "localhost:7357")
//
// Routes:
//
//	GET /instances                list live roots
//	GET /instances/{id}           one root with its snapshot description
//	GET /instances/{id}/html      container markup
//	GET /instances/{id}/preview   sanitized markup in an HTML page
//	GET /metrics                  Prometheus metrics
//	GET /ws                       lifecycle events as JSON messages
package inspect
