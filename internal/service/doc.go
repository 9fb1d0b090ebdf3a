// Package service contains the processing logic behind the web service routes.
//
// ProcessService implements the /process route: it either forwards to the
// configured upstream through UpstreamClient, with synthetic fault injection,
// or simulates work by waiting a random delay. Results and failures are
// recorded on the span carried by the request context.
//
// # Thread Safety
//
// All services are safe for concurrent use from multiple goroutines.
package service
