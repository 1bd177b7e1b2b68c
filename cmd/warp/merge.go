package main

import (
	"github.com/spf13/cobra"

	"github.com/Sparky983/warp-config-sub000/node"
	"github.com/Sparky983/warp-config-sub000/source"
)

func (a *app) newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Print the merged configuration as YAML",
		Long: `Merge every source and print the result as one YAML document. Maps are
merged key by key; any other value is taken from the highest priority source
holding it.

Examples:
  warp merge -c override.yaml -c base.yaml
  warp merge -c base.yaml --env-prefix APP`,
		Args: cobra.NoArgs,
		RunE: a.runMerge,
	}
}

func (a *app) runMerge(cmd *cobra.Command, _ []string) error {
	sources, err := a.sources(cmd.Context())
	if err != nil {
		return err
	}

	nodes, err := source.LoadAll(sources)
	if err != nil {
		return err
	}

	merged := node.Node(node.MapOf())
	if len(nodes) != 0 {
		merged = node.Composite(nodes...)
	}

	data, err := node.MarshalYAML(merged)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
