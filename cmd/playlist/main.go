package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/a13labs/iptvdeck/cmd"
	"github.com/a13labs/iptvdeck/pkg/catalog"
	"github.com/a13labs/iptvdeck/pkg/m3uparser"
	"github.com/a13labs/iptvdeck/pkg/source"
	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <file or url>",
	Short: "Inspect an M3U playlist",
	Long:  `Parse and enrich an M3U playlist and print the resulting channel catalog.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {

		locator := args[0]
		provider := source.NewDirProvider(filepath.Dir(locator), 5)
		content, err := provider.Read(locator)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read playlist: %v\n", err)
			os.Exit(1)
		}

		code := strings.ToUpper(strings.TrimSuffix(filepath.Base(locator), filepath.Ext(locator)))
		if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
			code = catalog.CustomPlaylistCode
		}
		playlist := catalog.DecoratePlaylist(code, code, locator)

		entries := m3uparser.Parse(content)
		for i, entry := range entries {
			channel := catalog.Enhance(entry, playlist, i)
			labels := make([]string, 0, len(channel.Tags))
			for _, tag := range channel.Tags {
				labels = append(labels, tag.Label)
			}
			fmt.Printf("%-40s %-6s %-20s %s\n", channel.DisplayName, channel.Quality, channel.Group, strings.Join(labels, ", "))
		}
		fmt.Printf("%d channels in %s\n", len(entries), playlist.Label)
	},
}

func init() {
	cmd.RootCmd.AddCommand(playlistCmd)
}
