// Package ports holds the interfaces the shell's layers meet at. The
// registry and chrome services implement the inbound ports used by HTTP
// handlers and plugins; the webhook executor, predicate compiler, manifest
// loader and preference stores implement the outbound ones.
package ports
