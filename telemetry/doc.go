// Package telemetry instruments A* searches with Prometheus metrics and
// OpenTelemetry spans.
//
// What:
//
//   - Metrics registers run, expansion, path and event collectors on a
//     prometheus.Registerer and wraps an astar.Observer to count events.
//   - Recorder ties Metrics to a tracer: Begin opens an "astar.search" span
//     and returns a finish func, Run does both around astar.Run.
//   - NewStdoutTracerProvider builds an SDK provider that prints spans, used
//     by "astarviz solve --trace".
//
// Why:
//
//   - The engine itself stays free of observability code. Everything here
//     plugs in through the public Observer and Option hooks.
//
// A nil *Metrics is valid and records nothing.
package telemetry
