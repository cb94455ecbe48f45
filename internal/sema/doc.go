// Package sema resolves a metadata AST into the trace model.
//
// The walk is single pass and depth first. Each trace, stream and event
// block gets its own scope pair chained to its parent's; its attributes are
// presence checked; and the block is registered in its parent's table only
// once it validates. A block that fails is torn down entirely before the
// error goes up: stream and event failures are reported and their siblings
// still run, a trace failure stops the build.
package sema
