package search

import "github.com/pders01/narou/internal/storage"

// Searcher defines the minimal search API used by the CLI. A limit of zero
// or less returns every hit.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// UpdateListener can be implemented by search engines that maintain
// an external index and want to be notified when a snapshot is archived.
// docs replace everything previously indexed for the same kind and user.
type UpdateListener interface {
	OnArchived(kind storage.Kind, userID int, docs []Document)
}

// DeleteListener can be implemented to get notified when a user's
// snapshots are removed from the archive.
type DeleteListener interface {
	OnUserDeleted(userID int)
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}
