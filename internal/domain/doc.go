// Package domain holds the error vocabulary shared by every entity package.
// Actions, triggers, chrome state and plugin manifests live in the
// sub-packages; handlers map these sentinels and typed errors to HTTP
// problem responses.
package domain
