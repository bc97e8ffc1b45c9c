// Package metrics records build and stage metrics.
//
// Components receive a Recorder through injection and default to NoopRecorder,
// so metrics calls never need nil checks. The topsoil CLI swaps in a
// PrometheusRecorder when --metrics-file is set and writes the registry to that
// file in the Prometheus text format once the build ends, ready for the node
// exporter textfile collector.
package metrics
