package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/narou/internal/narou"
	"github.com/pders01/narou/internal/render"
)

var (
	withProfile bool
	archiveIt   bool
)

var userCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Show a writer's profile statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		user, err := client.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}

		if archiveIt {
			if err := withArchive(func(a *archive) error { return a.saveUser(user) }); err != nil {
				return err
			}
			note(cmd, "archived profile of user %d", user.UserID)
		}

		if opts.json {
			return render.JSON(cmd.OutOrStdout(), user)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.ProfileCard(user, theme()))
		return nil
	},
}

var blogCmd = &cobra.Command{
	Use:   "blog <id>",
	Short: "Show a writer's blog feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ref, err := feedRef(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		blog, err := client.GetBlog(cmd.Context(), ref)
		if err != nil {
			return err
		}

		if archiveIt {
			if err := withArchive(func(a *archive) error { return a.saveBlog(blog) }); err != nil {
				return err
			}
			note(cmd, "archived %d blog entries of user %d", len(blog.Entries), blog.Author.UserID)
		}

		if opts.json {
			return render.JSON(cmd.OutOrStdout(), blog)
		}
		return printMarkdown(cmd.OutOrStdout(), render.BlogMarkdown(blog))
	},
}

var novelCmd = &cobra.Command{
	Use:   "novel <id>",
	Short: "Show a writer's novel catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ref, err := feedRef(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		novel, err := client.GetNovel(cmd.Context(), ref)
		if err != nil {
			return err
		}

		if archiveIt {
			if err := withArchive(func(a *archive) error { return a.saveNovel(novel) }); err != nil {
				return err
			}
			note(cmd, "archived %d novels of user %d", len(novel.Entries), novel.Author.UserID)
		}

		if opts.json {
			return render.JSON(cmd.OutOrStdout(), novel)
		}
		return printMarkdown(cmd.OutOrStdout(), render.NovelMarkdown(novel))
	},
}

// snapshot is everything `narou all` fetches for one writer.
type snapshot struct {
	User  narou.User  `json:"user"`
	Blog  narou.Blog  `json:"blog"`
	Novel narou.Novel `json:"novel"`
}

var allCmd = &cobra.Command{
	Use:   "all <id>",
	Short: "Fetch profile, blog and novels in one go",
	Long: `Fetch the profile first, then the blog and novel feeds concurrently.
Both feeds reuse the fetched profile, so this costs three requests.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		snap, err := fetchAll(cmd.Context(), client, id)
		if err != nil {
			return err
		}

		if archiveIt {
			err := withArchive(func(a *archive) error {
				if err := a.saveBlog(snap.Blog); err != nil {
					return err
				}
				return a.saveNovel(snap.Novel)
			})
			if err != nil {
				return err
			}
			note(cmd, "archived profile, blog and novels of user %d", id)
		}

		if opts.json {
			return render.JSON(cmd.OutOrStdout(), snap)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, render.ProfileCard(snap.User, theme()))
		if err := printMarkdown(out, render.BlogMarkdown(snap.Blog)); err != nil {
			return err
		}
		return printMarkdown(out, render.NovelMarkdown(snap.Novel))
	},
}

func init() {
	for _, c := range []*cobra.Command{blogCmd, novelCmd} {
		c.Flags().BoolVar(&withProfile, "with-profile", false, "fetch the profile first and reuse it for the feed")
	}
	for _, c := range []*cobra.Command{userCmd, blogCmd, novelCmd, allCmd} {
		c.Flags().BoolVar(&archiveIt, "archive", false, "store the snapshot in the local archive")
	}
	rootCmd.AddCommand(userCmd, blogCmd, novelCmd, allCmd)
}

// feedRef builds the client and the user reference for a feed fetch. With
// --with-profile the profile is fetched up front and the feed fetch reuses
// it.
func feedRef(ctx context.Context, arg string) (*narou.Client, narou.UserRef, error) {
	id, err := parseUserID(arg)
	if err != nil {
		return nil, narou.UserRef{}, err
	}
	client, err := newClient()
	if err != nil {
		return nil, narou.UserRef{}, err
	}
	if !withProfile {
		return client, narou.ByID(id), nil
	}

	user, err := client.GetUser(ctx, id)
	if err != nil {
		return nil, narou.UserRef{}, err
	}
	return client, narou.ByUser(user), nil
}

func fetchAll(ctx context.Context, client *narou.Client, id int) (snapshot, error) {
	user, err := client.GetUser(ctx, id)
	if err != nil {
		return snapshot{}, err
	}

	snap := snapshot{User: user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		blog, err := client.UserBlog(gctx, user)
		if err != nil {
			return err
		}
		snap.Blog = blog
		return nil
	})
	g.Go(func() error {
		novel, err := client.UserNovel(gctx, user)
		if err != nil {
			return err
		}
		snap.Novel = novel
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// defaultTermWidth is assumed for output that may not be a terminal.
const defaultTermWidth = 80

func wrapWidth() int {
	if cfg.UI.WrapWidth > 0 {
		return cfg.UI.WrapWidth
	}
	return render.WrapWidth(defaultTermWidth)
}

func printMarkdown(w io.Writer, md string) error {
	var m render.Markdown
	out, err := m.Render(md, wrapWidth())
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, strings.TrimRight(out, "\n")+"\n")
	return err
}
