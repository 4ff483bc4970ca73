package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var ConfigFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "iptvdeck",
	Short: "Browse, filter and play IPTV playlists",
	Long:  `iptvdeck parses M3U playlists into an enriched channel catalog and serves it over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {

	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "config file (default is iptvdeck.json)")
}
