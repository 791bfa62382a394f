// Package placement exposes label configuration as placement finders.
//
// A [Finder] owns the default style of a label and its format tree. Two
// kinds share the same accessor contract: [Dummy] places a label once and
// supports no per-run styling, while [Simple] yields an ordered list of
// candidate placements, one per direction and text size.
//
// Finders are configured through typed accessors, through the uniform key
// table ([Finder.Get], [Finder.Set]) or from a style document in YAML or
// HCL. Configuration must complete before rendering starts; rendering a
// configured finder from several goroutines is safe.
package placement
