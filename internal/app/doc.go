// Package app wires the normalization service together: configuration,
// logging, OpenTelemetry providers, the service layer, the chi router with
// its middleware chain, and the HTTP server lifecycle.
//
// The wiring order is fixed: config → logger → directories → OTel →
// services → router → server. NewApplication performs the whole sequence;
// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
package app
