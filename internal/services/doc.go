// Package services implements the business logic layer between the HTTP
// handlers and the normalization pipeline.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- NormalizeService: runs a batch of staged exports through the pipeline
//	  and produces one combined table
//	- HealthService: provides liveness, readiness, and version information
//
// # Error Handling
//
// Services return domain-specific errors that handlers transform into
// RFC 7807 problem responses: unreadable uploads map to client errors,
// missing required columns to unprocessable entity, and unexpected
// pipeline faults to internal errors.
package services
