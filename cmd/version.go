package cmd

import (
	"fmt"

	"mediafetch/application/info"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the yt-dlp version in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		v, err := info.NewService(newClient(cfg)).Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", label("yt-dlp"), v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
