package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Actual version can be specified in build command.
var version = "unknown"

type buildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := currentBuild()
		if viper.GetBool("json") {
			return printJSON(cmd, info)
		}

		line := fmt.Sprintf("%s %s (%s %s)", app, info.Version, info.Go, info.Platform)
		if info.Revision != "" {
			line += " rev " + info.Revision
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func currentBuild() buildInfo {
	info := buildInfo{
		Version:  version,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				info.Revision = setting.Value[:7]
			}
		}
	}

	return info
}
