// Package pkg provides the libraries behind streamwall, a grid layout engine
// for walls of live streams.
//
// # Overview
//
// A wall is a grid of 16:9 tiles, one per stream. The container size decides
// how many columns and rows the grid has and whether it is in desktop or
// mobile mode. Users drag and resize tiles; accepted arrangements are kept
// per project and mode and survive streams being added or removed.
//
// # Architecture
//
//	container size + stream IDs
//	         ↓
//	    [grid] (metrics, placement, validation, repair, reflow)
//	         ↓
//	    [session] (drag/resize commit protocol)
//	         ↓
//	    [board] (one wall: mode switching, manual layouts)
//	         ↓
//	    [store] (file, Redis or MongoDB persistence)
//
// Around the core:
//
//   - [source] parses YouTube, Twitch and Kick channel URLs.
//   - [project] reads and writes the TOML project file listing the streams.
//   - [live] polls a resolver service for live status.
//   - [render] draws layouts as terminal text, Graphviz DOT or SVG.
//   - [config] loads settings with viper.
//   - [errors] defines error codes shared by the CLI and the HTTP API.
//   - [observability] exposes hooks for metrics and tracing.
//
// # Quick Start
//
//	b, _ := board.New(board.Options{ProjectID: p.ID})
//	b.SetStreams(ctx, p.StreamIDs())
//	b.Resize(ctx, 1920, 1080)
//	fmt.Print(render.Text(b.Layout(), b.Metrics(), render.TextOptions{}))
//
//	res, _ := b.ResizeTile(ctx, "twitch:shroud", 4, 3)
package pkg
