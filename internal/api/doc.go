// Package api implements the HTTP REST API for the registry
// restructurer.
//
// This package provides:
//   - REST endpoints for structure browsing, rename previews and
//     rename execution
//   - Broken-reference scanning, suggestions and repair endpoints
//   - Type-mapping CRUD for the naming translator
//   - Middleware stack (request ID, logging, recovery, CORS, body
//     size limit, bearer-token auth)
//
// # Architecture
//
// The API server is thin glue over restructure.Service: handlers
// decode a request, call one service operation and encode the result.
// All domain decisions (cascade ordering, cache invalidation, event
// publishing) live in the service.
//
// # Security
//
// Authentication uses a single static bearer token from the
// configuration. An empty token disables auth for local development.
package api
