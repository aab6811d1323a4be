// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package template parses configuration template text into a tree of nodes:
literal text runs, {{ ... }} actions holding pipelines, control blocks
(if/else, range, with) and named template definitions (define).

The parser is a single pass, recursive over block keywords. It resolves
chomp markers ("{{-" and "-}}") at parse time by trimming whitespace in
the adjacent literal text up to and including the nearest newline, which
is what makes templating indentation-sensitive formats (YAML) workable.

This package also owns the error vocabulary shared by the whole engine
(see ErrorKind); evaluation of the parsed tree lives in pkg/render.
*/
package template
