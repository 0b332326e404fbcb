package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/narou/internal/debuglog"
	"github.com/pders01/narou/internal/narou"
	"github.com/pders01/narou/internal/opener"
	"github.com/pders01/narou/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:       "browse <blog|novel> <id>",
	Short:     "Browse a writer's blog or novels interactively",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"blog", "novel"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[1])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		var feed tui.Feed
		switch args[0] {
		case "blog":
			blog, err := client.GetBlog(cmd.Context(), narou.ByID(id))
			if err != nil {
				return err
			}
			feed = tui.BlogFeed(blog)
		case "novel":
			novel, err := client.GetNovel(cmd.Context(), narou.ByID(id))
			if err != nil {
				return err
			}
			feed = tui.NovelFeed(novel)
		default:
			return fmt.Errorf("unknown feed %q: want blog or novel", args[0])
		}

		var appOpts []tui.Option
		if o, err := newOpener(); err != nil {
			debuglog.Warnf("links cannot be opened: %v", err)
		} else {
			appOpts = append(appOpts, tui.WithOpener(o))
		}

		// The archive is only needed for in-browser search; a locked or
		// missing archive just disables it.
		if a, err := openArchive(true); err != nil {
			debuglog.Warnf("search disabled: %v", err)
		} else {
			defer a.Close()
			if a.index != nil {
				appOpts = append(appOpts, tui.WithSearcher(a.index))
			}
		}

		app := tui.NewApp(feed, cfg, appOpts...)
		p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running browser: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func newOpener() (*opener.Opener, error) {
	var o []opener.Option
	if cfg.UI.Opener != "" {
		o = append(o, opener.WithCommand(cfg.UI.Opener))
	}
	return opener.New(o...)
}
