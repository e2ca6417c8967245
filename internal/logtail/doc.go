// Package logtail reads the end of the foxnuts client log.
//
// The terminal UI owns stdout, so the client logs JSON to
// <data_dir>/foxnuts.log. Mirror failures never reach the user beyond that
// log; SyncIssues pulls them back out so `foxnuts -sync-issues N` can show
// which cart and wishlist changes did not make it to the server.
//
// Read keeps only the last N lines in a ring buffer, so large logs are
// scanned once without being held in memory.
package logtail
