// Command subburn is the CLI for the caption burn-in service: run the
// service, burn captions into a local file, and inspect or clean jobs.
package main
