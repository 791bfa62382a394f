// Package lang is the expression boundary of labelfmt. It compiles the
// value expressions embedded in format strings and style properties and
// evaluates them against the attributes of a single map feature.
//
// All expression parsing, type checking and evaluation is delegated to
// expr-lang. This package only adds the feature attribute context and a few
// builtins, and records which attributes an expression refers to.
//
// # Attributes
//
// Feature attributes are exposed as top-level variables:
//
//	POP * 2
//	NAME + " (" + string(RANK) + ")"
//
// Attributes whose names are not valid identifiers are read with attr:
//
//	attr("name:en") ?? NAME
//
// # Builtins
//
//   - attr(name): attribute value or nil
//   - has(name): whether the feature carries the attribute
//   - coalesce(v...): first non-nil, non-empty argument
//   - feature: the attribute map itself
//
// Builtins take precedence over attributes of the same name; such attributes
// remain reachable through attr.
//
// A compiled [Expr] is immutable and safe for concurrent evaluation.
package lang
