package narou

import "time"

// User is a snapshot of a writer's profile statistics.
type User struct {
	Name           string `json:"name"`
	UserID         int    `json:"userid"`
	Yomikata       string `json:"yomikata"`
	NovelCount     int    `json:"novel_cnt"`
	ReviewCount    int    `json:"review_cnt"`
	NovelLength    int    `json:"novel_length"`
	SumGlobalPoint int    `json:"sum_global_point"`
}

type Blog struct {
	Author   User        `json:"author"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Entries  []BlogEntry `json:"entries"`
}

type BlogEntry struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Published time.Time `json:"published"`
	Updated   time.Time `json:"updated"`
	EntryID   int       `json:"entryid"`
}

type Novel struct {
	Author   User         `json:"author"`
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Updated  time.Time    `json:"updated"`
	Entries  []NovelEntry `json:"entries"`
}

type NovelEntry struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Published time.Time `json:"published"`
	Updated   time.Time `json:"updated"`
	// Link is the raw href of the entry's link element, empty when absent.
	Link string `json:"link"`
}

type refKind int

const (
	refID refKind = iota
	refUser
)

// UserRef names the owner of a feed either by raw id or by an already
// fetched profile. A profile ref lets feed fetches skip the profile request.
type UserRef struct {
	kind refKind
	id   int
	user User
}

func ByID(id int) UserRef { return UserRef{kind: refID, id: id} }

func ByUser(u User) UserRef { return UserRef{kind: refUser, id: u.UserID, user: u} }

func (r UserRef) ID() int { return r.id }

// User returns the embedded profile, if the ref carries one.
func (r UserRef) User() (User, bool) {
	if r.kind == refUser {
		return r.user, true
	}
	return User{}, false
}
