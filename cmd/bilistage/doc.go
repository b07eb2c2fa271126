// Package main hosts the bilistage CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds a logger and a
// workflow.Service, and hands each subcommand a context carrying a fresh
// request id. Commands stay thin: the editing, cascade and upload logic lives
// in internal/workflow and the packages it composes.
package main
