package cli

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docchat version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docchat version %s\n", resolvedVersion())
	},
}

// resolvedVersion prefers the -ldflags version and falls back to the module
// version recorded by go install.
func resolvedVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
