// Package pkg provides the core libraries for Bubblepack bubble layouts.
//
// # Overview
//
// Bubblepack packs a population of circles so that none overlap. Circles are
// shown either as one dense cluster around the centre of the viewport or as a
// grid of per-group clusters, and the engine animates between the two by
// converging the groups back into a cluster. The pkg directory is organized
// into three main areas:
//
//  1. [core] - Domain logic (geometry, circles, grid partition, solver)
//  2. [engine] - The stateful layout engine and its mode machine
//  3. Infrastructure ([pipeline], [cache], [session], [config], [observability])
//
// # Architecture
//
// The typical data flow through Bubblepack:
//
//	Options (count, groups, radius range, viewport, seed)
//	         ↓
//	    [core/bubble] package (create circles, assign groups)
//	         ↓
//	    [core/grid] package (partition groups into cells, grouped mode only)
//	         ↓
//	    [core/relax] package (seed ring + relaxation per region)
//	         ↓
//	    [engine] Snapshot → JSON/YAML
//
// # Quick Start
//
// Create an engine and switch it to grouped mode:
//
//	import "github.com/matzehuels/bubblepack/pkg/engine"
//
//	e, err := engine.New(
//	    engine.WithCount(200),
//	    engine.WithGroups(40),
//	    engine.WithViewport(engine.Viewport{Width: 1200, Height: 800}),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := e.EnterGrouped(); err != nil {
//	    return err
//	}
//	snap := e.Snapshot()
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/geom] - Points, rectangles and the small numeric helpers shared by
// the solver and the grid.
//
// [core/bubble] - The circle model. Radii derive from a size fraction and the
// current radius range, so range edits keep every circle's rank. Seeding
// places unplaced circles on a ring around a focal point.
//
// [core/grid] - Partitions groups into a column-major grid whose row heights
// follow each group's area footprint.
//
// [core/relax] - The Gauss-Seidel relaxation solver with density-based tuning
// of padding, spring strength and iteration budget.
//
// ## Engine
//
// [engine] - Owns the circles and the current mode (clustered, grouped,
// converging). Mode transitions, viewport recomputes and parameter edits are
// serialised by the engine. A [engine.Coalescer] collapses bursts of viewport
// changes to one recompute per frame.
//
// ## Infrastructure
//
// [pipeline] - One-shot layouts (options → snapshot → encoded artifacts)
// shared by CLI and API, with caching keyed on the options.
//
// [cache] - Cache backends for layout snapshots: file (CLI default), SQLite,
// Redis, MongoDB and a null cache.
//
// [session] - Interactive sessions for the API: one engine per session with
// sliding expiry.
//
// [config] - TOML/YAML configuration with .env and environment overrides.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events, with
// a logging implementation.
//
// [errors] - Coded errors shared by every package and mapped to HTTP status
// codes by [httputil].
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/relax/...         # Specific package
//	go test -run Example                 # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/core
// [core/geom]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/core/geom
// [core/bubble]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/core/bubble
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/core/grid
// [core/relax]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/core/relax
// [engine]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/engine
// [engine.Coalescer]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/engine#Coalescer
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/bubblepack/pkg/httputil
package pkg
