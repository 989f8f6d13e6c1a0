package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

const libraryPath = "github.com/joshuapare/nvkit"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"go_version,omitempty"`
	Library   string `json:"nvkit,omitempty"`
}

// buildVersion merges the link-time variables with the module build info.
// Link-time values win; build info fills in what was left at its default.
func buildVersion(bi *debug.BuildInfo) versionInfo {
	v := versionInfo{Version: version, Commit: commit, Built: date}
	if bi == nil {
		return v
	}
	v.GoVersion = bi.GoVersion
	if v.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		v.Version = bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if dep.Path != libraryPath {
			continue
		}
		v.Library = dep.Version
		if dep.Replace != nil {
			v.Library = "=> " + dep.Replace.Path
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if v.Commit == "none" {
				v.Commit = s.Value
			}
		case "vcs.time":
			if v.Built == "unknown" {
				v.Built = s.Value
			}
		}
	}
	return v
}

func runVersion() error {
	bi, _ := debug.ReadBuildInfo()
	v := buildVersion(bi)
	if jsonOut {
		return printJSON(v)
	}
	printInfo("nvctl %s\n", v.Version)
	printInfo("  commit: %s\n", v.Commit)
	printInfo("  built: %s\n", v.Built)
	if v.GoVersion != "" {
		printInfo("  go: %s\n", v.GoVersion)
	}
	if v.Library != "" {
		printInfo("  nvkit: %s\n", v.Library)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
