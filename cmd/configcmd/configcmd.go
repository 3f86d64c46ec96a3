// Package configcmd prints the effective configuration
package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bill-check/cmd/root"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration the tool would run with after merging
defaults, the optional config.yaml and BILLCHECK_* environment variables.
The output can be saved as a starting point for a config file.`,
	Run: configFunc,
}

func configFunc(cmd *cobra.Command, args []string) {
	data, err := yaml.Marshal(root.Cfg)
	if err != nil {
		root.Log.Fatalf("Error rendering configuration: %v", err)
	}
	fmt.Print(string(data))
}
