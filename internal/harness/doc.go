// Package harness runs YAML conformance scenarios: each scenario
// declares a table and a pipeline, and either matches the rendered q
// translation against a golden file or asserts a translation error
// code.
package harness
