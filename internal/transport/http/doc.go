// Package http implements HTTP request handlers for the normalization
// service. It provides a thin layer between HTTP transport and business
// logic, keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Pipeline
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/upload/unreadable-file",
//	    "title": "Unreadable File",
//	    "status": 400,
//	    "detail": "file \"export.xlsx\" is not readable as tabular data",
//	    "trace_id": "..."
//	}
//
// # Testing
//
// Handlers are tested using httptest:
//
//	- Real service dependencies over temp directories
//	- Test various HTTP scenarios
//	- Verify problem responses
package http
