// Package services defines shared utilities consumed by the editing pipeline,
// the workflows, and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp stage names, titles, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (not found vs validation vs external tool) all the way up to
//     the command boundary.
//
// Use these helpers when wiring new workflow logic so error handling and
// observability stay uniform across commands.
package services
