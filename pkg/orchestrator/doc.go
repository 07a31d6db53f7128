// Package orchestrator wires the fetch → parse → normalize → render pipeline
// behind a single entry point, providing dependency injection friendly options
// for consumers that want to swap a stage, write artifacts between stages, or
// resolve a theme ahead of rendering.
package orchestrator
