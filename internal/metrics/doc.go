/*
Package metrics is ambient observability: prometheus gauges for pool
composition and histograms for probe/cycle timing, exposed via
promhttp.Handler on a loopback-only listener when the daemon is started
with -d. Nothing in fleetd's correctness depends on a
scraper being present.
*/
package metrics
