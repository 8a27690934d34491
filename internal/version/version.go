package version

import "runtime"

// Build metadata, set with -ldflags at build time.
var (
	GitCommit  string
	GitBranch  string
	GitSummary string
	BuildDate  string
	AppVersion string
	GoVersion  = runtime.Version()
)

// Version holds the build information of the running binary.
type Version struct {
	GitCommit  string `json:"git_commit"`
	GitBranch  string `json:"git_branch"`
	GitSummary string `json:"git_summary"`
	BuildDate  string `json:"build_date"`
	AppVersion string `json:"app_version"`
	GoVersion  string `json:"go_version"`
}

// Current returns the build information of the running binary.
func Current() Version {
	return Version{
		GitCommit:  GitCommit,
		GitBranch:  GitBranch,
		GitSummary: GitSummary,
		BuildDate:  BuildDate,
		AppVersion: AppVersion,
		GoVersion:  GoVersion,
	}
}
