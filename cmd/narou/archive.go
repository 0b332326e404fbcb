package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/narou/internal/debuglog"
	"github.com/pders01/narou/internal/narou"
	"github.com/pders01/narou/internal/render"
	"github.com/pders01/narou/internal/search"
	"github.com/pders01/narou/internal/storage"
	"github.com/pders01/narou/internal/validation"
)

// archive is the bbolt store plus the bleve index kept in step with it. The
// index is optional; when it cannot be opened the archive still works and
// search falls back to scanning.
type archive struct {
	store *storage.Store
	index search.Searcher
	close func() error
}

func openArchive(withIndex bool) (*archive, error) {
	v := validation.NewPathValidator()
	dbPath, err := v.ArchiveFile(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("archive path: %w", err)
	}

	store, err := storage.NewStore(dbPath, cfg.Database.Timeout)
	if err != nil {
		return nil, err
	}

	a := &archive{store: store, close: func() error { return nil }}
	if !withIndex {
		return a, nil
	}

	idxPath, err := v.IndexDir(cfg.Database.SearchIndex)
	if err != nil {
		debuglog.Warnf("search index disabled: %v", err)
		return a, nil
	}
	engine, err := search.NewBleveEngine(store, idxPath)
	if err != nil {
		debuglog.Warnf("search index disabled: %v", err)
		return a, nil
	}
	a.index = engine
	a.close = engine.Close
	return a, nil
}

func (a *archive) Close() error {
	return errors.Join(a.close(), a.store.Close())
}

// withArchive opens the archive with its index, runs fn and closes both.
func withArchive(fn func(*archive) error) error {
	a, err := openArchive(true)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			debuglog.Warnf("closing archive: %v", err)
		}
	}()
	return fn(a)
}

func (a *archive) saveUser(u narou.User) error {
	return a.store.SaveUser(u, time.Now())
}

func (a *archive) saveBlog(b narou.Blog) error {
	now := time.Now()
	if err := a.store.SaveUser(b.Author, now); err != nil {
		return err
	}
	if err := a.store.SaveBlog(b, now); err != nil {
		return err
	}
	if l, ok := a.index.(search.UpdateListener); ok {
		l.OnArchived(storage.KindBlog, b.Author.UserID, search.BlogDocuments(b))
	}
	return nil
}

func (a *archive) saveNovel(n narou.Novel) error {
	now := time.Now()
	if err := a.store.SaveUser(n.Author, now); err != nil {
		return err
	}
	if err := a.store.SaveNovel(n, now); err != nil {
		return err
	}
	if l, ok := a.index.(search.UpdateListener); ok {
		l.OnArchived(storage.KindNovel, n.Author.UserID, search.NovelDocuments(n))
	}
	return nil
}

func (a *archive) delete(userID int) error {
	if err := a.store.Delete(userID); err != nil {
		return err
	}
	if l, ok := a.index.(search.DeleteListener); ok {
		l.OnUserDeleted(userID)
	}
	return nil
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the local archive of fetched snapshots",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withArchiveStore(func(a *archive) error {
			rows, err := a.store.List()
			if err != nil {
				return err
			}
			if opts.json {
				return render.JSON(cmd.OutOrStdout(), rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.ArchiveTable(rows, theme()))
			return nil
		})
	},
}

// archivedUser is what `archive show` prints; absent snapshots stay nil.
type archivedUser struct {
	User  *storage.UserRecord  `json:"user,omitempty"`
	Blog  *storage.BlogRecord  `json:"blog,omitempty"`
	Novel *storage.NovelRecord `json:"novel,omitempty"`
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the archived snapshots of one writer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		return withArchiveStore(func(a *archive) error {
			shown, err := loadArchived(a.store, id)
			if err != nil {
				return err
			}
			if opts.json {
				return render.JSON(cmd.OutOrStdout(), shown)
			}

			out := cmd.OutOrStdout()
			if shown.User != nil {
				fmt.Fprintln(out, render.ProfileCard(shown.User.User, theme()))
			}
			var md strings.Builder
			if shown.Blog != nil {
				md.WriteString(render.BlogMarkdown(shown.Blog.Blog))
			}
			if shown.Novel != nil {
				md.WriteString(render.NovelMarkdown(shown.Novel.Novel))
			}
			if md.Len() == 0 {
				return nil
			}
			return printMarkdown(out, md.String())
		})
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove every archived snapshot of one writer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		return withArchive(func(a *archive) error {
			if err := a.delete(id); err != nil {
				return err
			}
			note(cmd, "deleted archived snapshots of user %d", id)
			return nil
		})
	},
}

func init() {
	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveDeleteCmd)
	rootCmd.AddCommand(archiveCmd)
}

// withArchiveStore is withArchive without the search index, for read-only
// commands that never touch it.
func withArchiveStore(fn func(*archive) error) error {
	a, err := openArchive(false)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			debuglog.Warnf("closing archive: %v", err)
		}
	}()
	return fn(a)
}

func loadArchived(store *storage.Store, id int) (archivedUser, error) {
	var shown archivedUser
	var err error

	if shown.User, err = ignoreMissing(store.GetUser(id)); err != nil {
		return shown, err
	}
	if shown.Blog, err = ignoreMissing(store.GetBlog(id)); err != nil {
		return shown, err
	}
	if shown.Novel, err = ignoreMissing(store.GetNovel(id)); err != nil {
		return shown, err
	}
	if shown.User == nil && shown.Blog == nil && shown.Novel == nil {
		return shown, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	return shown, nil
}

func ignoreMissing[T any](rec *T, err error) (*T, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}
