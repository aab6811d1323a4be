// Copyright 2024 The Chartfold Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package funclib is the fixed registry of pure functions callable from
template pipelines.

Each function is declared with its name and expected argument count; the
evaluator appends the pipeline's accumulated value as the last positional
argument before calling (so ".x | default 3" calls default(3, x)). Arity
mismatches fail the render with an ArityError before the implementation
runs.

Effectful or evaluator-coupled functions (include, tpl, lookup) are not
defined here; pkg/render registers those at engine construction since
they need access to the evaluator itself.
*/
package funclib
