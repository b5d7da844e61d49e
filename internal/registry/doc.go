// Package registry is the client for the smart-home platform's
// registries and configuration documents.
//
// Two transports are involved. The area, device and entity registries
// speak a websocket command protocol with correlated request IDs; the
// Client manages the connection, the auth handshake and command
// correlation. States and the automation/scene/script documents are
// served over REST; the Store wraps those endpoints and satisfies the
// document interfaces of the refcheck and depend packages.
package registry
