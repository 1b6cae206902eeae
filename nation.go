package fmkit

import (
	"context"
	"time"
)

// DefaultSourceURL is the sortitoutsi.net page listing every nation.
const DefaultSourceURL = "https://sortitoutsi.net/football-manager-2024/nations"

// Newgens ratings in preference order.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingAverage   = "Average"
	RatingBasic     = "Basic"
	RatingPoor      = "Poor"
)

// Ratings is the closed newgens vocabulary, best first.
var Ratings = []string{RatingExcellent, RatingGood, RatingAverage, RatingBasic, RatingPoor}

// RatingRank returns the position of rating in Ratings, or -1 when the
// rating is outside the vocabulary.
func RatingRank(rating string) int {
	for i, r := range Ratings {
		if r == rating {
			return i
		}
	}
	return -1
}

// Nation is one entry of the nations directory.
type Nation struct {
	// ID is assigned by the source. It is shared between the men's and
	// women's variants of a nation, so it is not unique on its own.
	ID        string `json:"id"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname"`
	LogoURL   string `json:"logoUrl"`
	Newgens   string `json:"newgensRating"`
	IsWomens  bool   `json:"isWomens"`
	DetailURL string `json:"detailUrl"`
}

// Key returns an identifier unique across categories, e.g. "12-m" or "12-w".
func (n *Nation) Key() string {
	if n.IsWomens {
		return n.ID + "-w"
	}
	return n.ID + "-m"
}

// CategoryLabel returns the display label of the nation's category.
func (n *Nation) CategoryLabel() string {
	if n.IsWomens {
		return "Womens"
	}
	return "Mens"
}

// Validate returns an error if the nation is missing a required field.
func (n *Nation) Validate() error {
	if n.Name == "" {
		return Errorf(EINVALID, "nation name required")
	}
	if n.ID == "" {
		return Errorf(EINVALID, "nation id required")
	}
	return nil
}

// CountCategories returns the number of men's and women's nations.
func CountCategories(nations []Nation) (mens, womens int) {
	for i := range nations {
		if nations[i].IsWomens {
			womens++
		} else {
			mens++
		}
	}
	return mens, womens
}

// NationService retrieves the current nations directory from its source.
type NationService interface {
	// FetchNations performs a single retrieval and extraction.
	// A failed retrieval returns a *FetchError.
	FetchNations(ctx context.Context) ([]Nation, error)
}

// Snapshot describes one successful retrieval of the directory.
type Snapshot struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	ContentHash string    `json:"contentHash"`
	Count       int       `json:"count"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// NationStore persists the most recent record set.
type NationStore interface {
	// ReplaceNations atomically replaces the stored record set.
	ReplaceNations(ctx context.Context, snapshot *Snapshot, nations []Nation) error

	// FindNations returns the stored record set in source order.
	FindNations(ctx context.Context) ([]Nation, error)

	// FindLatestSnapshot returns the most recent snapshot.
	// Returns ENOTFOUND if nothing has been stored yet.
	FindLatestSnapshot(ctx context.Context) (*Snapshot, error)
}
