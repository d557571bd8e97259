package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the stamp cache for a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.app.LoadEnvironment(configPath(cmd))
			if err != nil {
				return err
			}
			return c.app.Clean(cmd.Context(), env)
		},
	}
}
