// Package model holds the domain types shared by the repository, service
// and handler layers.
//
// It defines the stored entities (Event, Prediction), the closed sets of
// values their enum columns may take, the typed filters the retrieval
// service hands to the repository, and the request payloads the HTTP
// layer binds into.
package model
