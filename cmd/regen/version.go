package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"regen/internal/lower"
	"regen/internal/version"
)

// buildInfo is what `regen version` reports. Unset build fields are omitted.
type buildInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Runtime   string `json:"runtime"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the regen version and default runtime",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		info := currentBuild()
		switch strings.ToLower(format) {
		case "json":
			return writeBuildJSON(cmd.OutOrStdout(), info)
		case "pretty":
			writeBuildPretty(cmd.OutOrStdout(), info)
			return nil
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func currentBuild() buildInfo {
	return buildInfo{
		Tool:      "regen",
		Version:   strings.TrimSpace(version.Version),
		Runtime:   lower.DefaultRuntime().Object,
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	}
}

func writeBuildPretty(out io.Writer, info buildInfo) {
	v := info.Version
	if v == version.Version {
		v = version.Colored()
	}
	fmt.Fprintf(out, "regen %s (runtime %s)\n", v, info.Runtime)
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func writeBuildJSON(out io.Writer, info buildInfo) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
