// Package metrics provides build metrics for the sitemapper pipeline.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default, so call sites never check for nil; PrometheusRecorder is swapped
// in when metrics export is configured:
//
//	reg := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	runner := pipeline.New(plugins, pipeline.WithRecorder(recorder))
//	...
//	_ = metrics.WriteTextfile(reg, "/var/lib/node_exporter/sitemapper.prom")
package metrics
