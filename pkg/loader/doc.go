// Package loader is the external collaborator that turns the JSON problem
// document format into a *problem.Problem: schema validation, reference
// checking (undefined literal/task/method names, out-of-range ordering
// indices) and the collapse normalization step. Load never determinizes
// its output — determinization (pkg/determinize) and the classical
// encoding (pkg/classical) run downstream, over the collapsed problem
// Load and Collapse produce.
package loader
