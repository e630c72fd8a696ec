package main

import (
	"os"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "circle_pipeline",
		Short:   "VRChat pipeline client with a local relationship cache",
		Example: "circle_pipeline serve --mode release",
	}

	cmd.AddCommand(
		NewServeCommand(),
		NewDecodeCommand(),
	)

	return cmd
}

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
