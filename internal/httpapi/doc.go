// Package httpapi serves the daemon's HTTP surface: upload, status poll,
// caption download, listing, cleanup, and daemon status.
package httpapi
