package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "flowby",
	Short: "Flowby interpreter",
	Long: `flowby runs Flowby scripts: a Python-flavored, indentation-sensitive
scripting language for describing browser-automation and API workflows.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored error output")
}
