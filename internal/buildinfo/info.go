// Package buildinfo holds release metadata stamped in with -ldflags -X.
package buildinfo

// Defaults apply to `go build` and `go test` runs.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
