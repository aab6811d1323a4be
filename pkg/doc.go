// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation
of chartfold.

From top-down, chartfold code is layered in this way:

# Entry Point

chartfold is built into two executable formats:

	./cmd/chartfold          // a command-line tool
	./cmd/chartfold-lambda   // an AWS Lambda function serving the render API

# Commands

	pkg/cmd       // cobra command wiring (render, version)
	pkg/cmd/ui    // terminal output
	pkg/renderapi // the HTTP render service

# Rendering

The heart of chartfold's action is rendering template sources against a
value context. Sources are parsed into node sequences, named templates
are registered across all sources, and then each source is evaluated.

	pkg/render   // engine, scopes, named-template registry, evaluator
	pkg/template // lexer, parser, AST, error vocabulary
	pkg/funclib  // the built-in template function library

# Values

Templates read from a composite value tree assembled from layered YAML
value files plus release, chart and capabilities metadata.

	pkg/values     // value trees, path resolution, merging, context
	pkg/orderedmap // insertion-ordered mappings backing every value tree
	pkg/cluster    // the external lookup boundary and its resolvers

# Utilities

	pkg/filepos     // source positions for error reporting
	pkg/spell       // suggestions for misspelled function names
	pkg/experiments // env-gated pre-GA behavior
	pkg/version     // build version
*/
package pkg
