// Package progress holds the hierarchical progress model of a trip:
// RouteProgress → LegProgress → StepProgress.
//
// Values are created and mutated only by the guidance engine. The mutating
// methods enforce the model's ordering rules: the step index only moves
// forward one step at a time and the alert level never decreases within a
// step. Observers receive copies taken with Snapshot.
package progress
