package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/narou/internal/debuglog"
	"github.com/pders01/narou/internal/storage"
)

var storedFields = []string{"kind", "user_id", "author", "feed", "title", "summary", "link"}

type BleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine creates or opens a Bleve index at indexPath and indexes the
// current archive.
func NewBleveEngine(store *storage.Store, indexPath string) (*BleveEngine, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}

	be := &BleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("indexing archive: %w", err)
	}
	return be, nil
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}

// buildIndexMapping uses the CJK analyzer for prose so Japanese titles are
// searchable by bigram; ids and kinds are exact keywords.
func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = cjk.AnalyzerName

	dm := bleve.NewDocumentMapping()

	text := func(store bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = cjk.AnalyzerName
		fm.Store = store
		return fm
	}

	title := text(true)
	title.IncludeTermVectors = true

	kw := func() *mapping.FieldMapping {
		fm := bleve.NewKeywordFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		return fm
	}

	link := bleve.NewTextFieldMapping()
	link.Index = false
	link.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("summary", text(true))
	dm.AddFieldMappingsAt("feed", text(true))
	dm.AddFieldMappingsAt("author", text(true))
	dm.AddFieldMappingsAt("link", link)
	dm.AddFieldMappingsAt("kind", kw())
	dm.AddFieldMappingsAt("user_id", kw())

	im.DefaultMapping = dm
	return im
}

func indexFields(d Document) map[string]any {
	return map[string]any{
		"kind":    string(d.Kind),
		"user_id": strconv.Itoa(d.UserID),
		"author":  d.Author,
		"feed":    d.Feed,
		"title":   d.Title,
		"summary": d.Summary,
		"link":    d.Link,
	}
}

// reindexAll brings the index in line with the archive: every archived entry
// is (re)indexed and documents of snapshots that are gone are removed.
func (b *BleveEngine) reindexAll() error {
	docs, err := archivedDocuments(b.store)
	if err != nil {
		return err
	}

	archived := make(map[string]struct{}, len(docs))
	batch := b.idx.NewBatch()
	for _, d := range docs {
		archived[d.ID] = struct{}{}
		if err := batch.Index(d.ID, indexFields(d)); err != nil {
			return err
		}
	}

	stale, err := b.staleIDs(archived)
	if err != nil {
		return err
	}
	for _, id := range stale {
		batch.Delete(id)
	}
	if len(stale) > 0 {
		debuglog.Infof("dropping %d stale documents from the search index", len(stale))
	}
	return b.idx.Batch(batch)
}

// staleIDs lists indexed document ids that are not in archived.
func (b *BleveEngine) staleIDs(archived map[string]struct{}) ([]string, error) {
	const size = 1000
	var stale []string
	for from := 0; ; from += size {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), size, from, false)
		res, err := b.idx.Search(req)
		if err != nil {
			return nil, err
		}
		for _, h := range res.Hits {
			if _, ok := archived[h.ID]; !ok {
				stale = append(stale, h.ID)
			}
		}
		if len(res.Hits) < size {
			return stale, nil
		}
	}
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	// OR of per-term matches across key fields with boosts
	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		for _, f := range []struct {
			field string
			boost float64
		}{
			{"title", 4.0},
			{"summary", 2.0},
			{"feed", 1.0},
			{"author", 0.5},
		} {
			mq := bleve.NewMatchQuery(tok)
			mq.SetField(f.field)
			mq.SetBoost(f.boost)
			qs = append(qs, mq)

			pq := bleve.NewPrefixQuery(strings.ToLower(tok))
			pq.SetField(f.field)
			pq.SetBoost(f.boost * 0.8)
			qs = append(qs, pq)
		}
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	if limit <= 0 {
		n, err := b.DocCount()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return []*Result{}, nil
		}
		limit = n
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = storedFields
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		d := Document{ID: h.ID}
		field := func(name string) string {
			s, _ := h.Fields[name].(string)
			return s
		}
		d.Kind = storage.Kind(field("kind"))
		d.UserID, _ = strconv.Atoi(field("user_id"))
		d.Author = field("author")
		d.Feed = field("feed")
		d.Title = field("title")
		d.Summary = field("summary")
		d.Link = field("link")
		out = append(out, &Result{Document: d, Score: h.Score})
	}
	return out, nil
}

// OnArchived replaces the indexed entries of one snapshot.
func (b *BleveEngine) OnArchived(kind storage.Kind, userID int, docs []Document) {
	kq := bleve.NewTermQuery(string(kind))
	kq.SetField("kind")
	b.deleteMatching(userID, kq)

	batch := b.idx.NewBatch()
	for _, d := range docs {
		if err := batch.Index(d.ID, indexFields(d)); err != nil {
			debuglog.Warnf("indexing %s: %v", d.ID, err)
		}
	}
	if err := b.idx.Batch(batch); err != nil {
		debuglog.Errorf("indexing %s snapshot for user %d: %v", kind, userID, err)
	}
}

// OnUserDeleted removes every indexed entry of userID.
func (b *BleveEngine) OnUserDeleted(userID int) {
	b.deleteMatching(userID)
}

func (b *BleveEngine) deleteMatching(userID int, extra ...bleveQuery.Query) {
	uq := bleve.NewTermQuery(strconv.Itoa(userID))
	uq.SetField("user_id")
	q := bleve.NewConjunctionQuery(append([]bleveQuery.Query{uq}, extra...)...)

	const size = 1000
	for {
		req := bleve.NewSearchRequestOptions(q, size, 0, false)
		res, err := b.idx.Search(req)
		if err != nil {
			debuglog.Errorf("finding documents of user %d: %v", userID, err)
			return
		}
		if len(res.Hits) == 0 {
			return
		}
		batch := b.idx.NewBatch()
		for _, h := range res.Hits {
			batch.Delete(h.ID)
		}
		if err := b.idx.Batch(batch); err != nil {
			debuglog.Errorf("deleting documents of user %d: %v", userID, err)
			return
		}
		if len(res.Hits) < size {
			return
		}
	}
}

// DocCount reports total documents in the index.
func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
