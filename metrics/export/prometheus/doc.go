// Package prometheus renders adminauth metrics for Prometheus scraping.
//
// [NewPrometheusExporter] accepts an [adminauth.Engine] and exposes an
// [http.Handler] that renders all adminauth counters in Prometheus text
// exposition format. Counter names are prefixed adminauth_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
