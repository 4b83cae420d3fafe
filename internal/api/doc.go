// Package api exposes the burn-in service over HTTP: uploads, job creation
// and queries, output download, and a websocket progress stream. Routing is
// thin; all job semantics live in the jobs manager.
package api
