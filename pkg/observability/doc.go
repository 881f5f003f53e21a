/*
Package observability provides tools for monitoring a checkout.

It turns lifecycle hooks into structured log records and Prometheus metrics,
and merges several hook sets so hosts can stack auditing on top of metrics.
*/
package observability
