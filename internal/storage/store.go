package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/pders01/narou/internal/narou"
)

var (
	usersBucket  = []byte("users")
	blogsBucket  = []byte("blogs")
	novelsBucket = []byte("novels")
)

var ErrNotFound = errors.New("not found in archive")

// Store archives fetched snapshots keyed by user id. Saving a snapshot
// replaces the previous one for that user.
type Store struct {
	db *bolt.DB
}

// NewStore opens or creates the archive at dbPath. A zero timeout waits one
// second for the file lock.
func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{usersBucket, blogsBucket, novelsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func key(userID int) []byte {
	// Zero-padded so bbolt's byte order matches numeric order.
	return []byte(fmt.Sprintf("%010d", userID))
}

func (s *Store) put(bucket []byte, userID int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key(userID), data)
	})
}

func (s *Store) get(bucket []byte, userID int, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get(key(userID))
		if data == nil {
			return fmt.Errorf("%s %d: %w", bucket, userID, ErrNotFound)
		}
		return json.Unmarshal(data, v)
	})
}

func (s *Store) SaveUser(u narou.User, fetchedAt time.Time) error {
	return s.put(usersBucket, u.UserID, &UserRecord{User: u, FetchedAt: fetchedAt})
}

func (s *Store) GetUser(userID int) (*UserRecord, error) {
	var rec UserRecord
	if err := s.get(usersBucket, userID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SaveBlog(b narou.Blog, fetchedAt time.Time) error {
	return s.put(blogsBucket, b.Author.UserID, &BlogRecord{Blog: b, FetchedAt: fetchedAt})
}

func (s *Store) GetBlog(userID int) (*BlogRecord, error) {
	var rec BlogRecord
	if err := s.get(blogsBucket, userID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SaveNovel(n narou.Novel, fetchedAt time.Time) error {
	return s.put(novelsBucket, n.Author.UserID, &NovelRecord{Novel: n, FetchedAt: fetchedAt})
}

func (s *Store) GetNovel(userID int) (*NovelRecord, error) {
	var rec NovelRecord
	if err := s.get(novelsBucket, userID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Blogs returns every archived blog ordered by user id.
func (s *Store) Blogs() ([]*BlogRecord, error) {
	var blogs []*BlogRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(blogsBucket).ForEach(func(_ []byte, v []byte) error {
			var rec BlogRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			blogs = append(blogs, &rec)
			return nil
		})
	})
	return blogs, err
}

// Novels returns every archived novel catalog ordered by user id.
func (s *Store) Novels() ([]*NovelRecord, error) {
	var novels []*NovelRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(novelsBucket).ForEach(func(_ []byte, v []byte) error {
			var rec NovelRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			novels = append(novels, &rec)
			return nil
		})
	})
	return novels, err
}

// List summarizes the archive, ordered by user id then kind.
func (s *Store) List() ([]Summary, error) {
	var out []Summary
	err := s.db.View(func(tx *bolt.Tx) error {
		if err := tx.Bucket(usersBucket).ForEach(func(_ []byte, v []byte) error {
			var rec UserRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, Summary{Kind: KindUser, UserID: rec.User.UserID, Title: rec.User.Name, FetchedAt: rec.FetchedAt})
			return nil
		}); err != nil {
			return err
		}
		if err := tx.Bucket(blogsBucket).ForEach(func(_ []byte, v []byte) error {
			var rec BlogRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, Summary{Kind: KindBlog, UserID: rec.Blog.Author.UserID, Title: rec.Blog.Title, Entries: len(rec.Blog.Entries), FetchedAt: rec.FetchedAt})
			return nil
		}); err != nil {
			return err
		}
		return tx.Bucket(novelsBucket).ForEach(func(_ []byte, v []byte) error {
			var rec NovelRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, Summary{Kind: KindNovel, UserID: rec.Novel.Author.UserID, Title: rec.Novel.Title, Entries: len(rec.Novel.Entries), FetchedAt: rec.FetchedAt})
			return nil
		})
	})

	rank := map[Kind]int{KindUser: 0, KindBlog: 1, KindNovel: 2}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return rank[out[i].Kind] < rank[out[j].Kind]
	})
	return out, err
}

// Delete removes every snapshot held for userID. It reports ErrNotFound when
// there was nothing to remove.
func (s *Store) Delete(userID int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		removed := false
		for _, bucket := range [][]byte{usersBucket, blogsBucket, novelsBucket} {
			b := tx.Bucket(bucket)
			if b.Get(key(userID)) == nil {
				continue
			}
			if err := b.Delete(key(userID)); err != nil {
				return err
			}
			removed = true
		}
		if !removed {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil
	})
}
