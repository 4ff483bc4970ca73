package serve

import (
	"github.com/a13labs/iptvdeck/cmd"
	rootCmd "github.com/a13labs/iptvdeck/cmd"
	"github.com/a13labs/iptvdeck/pkg/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the IPTV catalog server",
	Long:  `Start the HTTP server that lists playlists, enriches channels and drives playback.`,
	Run: func(cmd *cobra.Command, args []string) {

		server.Run(rootCmd.ConfigFile)
	},
}

func init() {
	cmd.RootCmd.AddCommand(serveCmd)
}
