// Package build runs the topsoil build pipeline.
//
// A Builder executes five stages in order (load settings, load page data,
// load templates, ensure the build root, render pages) against a single
// Model that it owns for the duration of Run. The first failing stage stops
// the build; pages already written stay in place.
//
// The package also defines sentinel errors that classify which part of the
// pipeline failed. They are always wrapped together with the underlying
// cause.
package build
