// Package api exposes the social graph, engagement, notification, profile
// and post operations over HTTP. Handlers decode and validate requests,
// call the services in internal/service and translate their errors into
// status codes with MapErrorToStatusCode. Responses never carry internal
// error text; the full error is logged, redacted, under the request's
// trace ID.
package api
