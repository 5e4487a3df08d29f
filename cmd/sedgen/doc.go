// Package main hosts the sedgen CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into pipeline
// runs, spectra archive inspection, catalog checks, preflight verification,
// watch-daemon control, and configuration scaffolding. It centralizes
// configuration resolution and terminal rendering so subcommands can focus
// on user experience instead of wiring.
//
// Keep this package lean: new behavior belongs in the internal packages
// first, surfaced here through dedicated commands or flags afterwards.
package main
