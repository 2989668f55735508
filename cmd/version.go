package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	buildTime  = "unknown"
)

// SetVersion records the build metadata injected by the linker
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of filmdesk",
	// no config needed
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), versionString(appVersion, buildTime))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionString formats build metadata. Versions that are not valid semver
// are reported as development builds.
func versionString(version, built string) string {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Sprintf("filmdesk development build (%s), built %s", version, built)
	}
	if len(v.Pre) > 0 {
		return fmt.Sprintf("filmdesk v%s (pre-release), built %s", v, built)
	}
	return fmt.Sprintf("filmdesk v%s, built %s", v, built)
}
