// Package handler contains the HTTP request handlers of the web service.
//
// Handlers parse the request, open the handler span, call the processing
// service and format the response. Failures are returned as errors and
// rendered by ErrorHandler, so every error response shares one envelope:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}}
//
// # Routes
//
//   - GET /         greeting
//   - GET /process  upstream passthrough or simulated delay
//   - GET /health, /livez, /readyz, /version  probes
//
// All handlers are safe for concurrent use.
package handler
