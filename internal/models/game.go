package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Review is a single user's review, embedded in its Game.
type Review struct {
	User        string    `json:"user"`
	Rating      float64   `json:"rating"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Game is the review aggregate: the game record together with every review
// attached to it. Reviews, genres and platforms are stored as JSON columns
// so the whole aggregate is read and written as one row.
type Game struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Slug          string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `json:"description,omitempty"`
	ReleaseDate   *time.Time `json:"releaseDate,omitempty"`
	Genres        []string   `gorm:"type:jsonb;serializer:json" json:"genres"`
	Platforms     []string   `gorm:"type:jsonb;serializer:json" json:"platforms"`
	Reviews       []Review   `gorm:"type:jsonb;serializer:json" json:"reviews"`
	AverageRating float64    `gorm:"not null;default:0" json:"averageRating"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// HasReviewFrom reports whether user already reviewed the game.
func (g *Game) HasReviewFrom(user string) bool {
	for _, r := range g.Reviews {
		if r.User == user {
			return true
		}
	}
	return false
}

// AppendReview adds r and recomputes the average rating.
func (g *Game) AppendReview(r Review) {
	g.Reviews = append(g.Reviews, r)
	g.RecomputeAverage()
}

// RecomputeAverage sets AverageRating to the mean of all ratings, or zero
// when there are none.
func (g *Game) RecomputeAverage() {
	if len(g.Reviews) == 0 {
		g.AverageRating = 0
		return
	}
	var sum float64
	for _, r := range g.Reviews {
		sum += r.Rating
	}
	g.AverageRating = sum / float64(len(g.Reviews))
}

// Normalize fills derived and empty fields so the JSON form never carries
// null lists.
func (g *Game) Normalize() {
	if g.Slug == "" {
		g.Slug = slug.Make(g.Title)
	}
	if g.Genres == nil {
		g.Genres = []string{}
	}
	if g.Platforms == nil {
		g.Platforms = []string{}
	}
	if g.Reviews == nil {
		g.Reviews = []Review{}
	}
}

// Clone returns a deep copy of the aggregate.
func (g *Game) Clone() *Game {
	c := *g
	c.Genres = append([]string(nil), g.Genres...)
	c.Platforms = append([]string(nil), g.Platforms...)
	c.Reviews = append([]Review(nil), g.Reviews...)
	if g.ReleaseDate != nil {
		d := *g.ReleaseDate
		c.ReleaseDate = &d
	}
	c.Normalize()
	return &c
}

func (g *Game) BeforeSave(tx *gorm.DB) error {
	g.Normalize()
	return nil
}

func (g *Game) AfterFind(tx *gorm.DB) error {
	g.Normalize()
	return nil
}
