// Package handler is the HTTP layer between the router and the services.
//
// Every endpoint is a typed function wrapped by Handle or HandleNoContent,
// which bind and validate the request, log and trace the call, and write the
// response. Errors are returned untouched for the global error handler.
package handler
