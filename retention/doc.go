// Package retention decides whether a learned clause survives a clause-database
// reduction round.
//
// # Reading Guide
//
//   - clause.go: the read-only clause handle (Clause, Stats) and the per-call
//     solver scalars (Inputs)
//   - features.go: derived features and the fixed feature table every tree
//     node selects from
//   - tree.go: arena-encoded decision trees and their evaluator
//   - ensemble.go: the voter that turns ten tree scores into keep/evict
//   - registry.go: ModelKey (length class, solver configuration, cluster) and
//     the process-wide ensemble registry
//   - table.go: the YAML model-table format the compiled-in ensembles use
//
// # Architecture
//
// Classification is a pure function of its inputs. Nothing in this package
// mutates a clause, holds per-call state or allocates on the ShouldKeep path,
// so a reduction pass may classify distinct clauses from many goroutines at
// once.
//
// Ensembles are data. The sub-package retention/models embeds the model
// tables and registers them from an init() function, the same way the
// solver's other pluggable pieces are wired. Callers pick an ensemble with
// Lookup(ModelKey) and call ShouldKeep once per candidate clause.
package retention
