// Package seed imports game records into the store. Games are keyed by the
// slug of their title, so re-running an import updates metadata in place
// and never touches reviews.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"gamereview/backend/internal/models"
	"gamereview/backend/internal/repository"
)

const releaseDateLayout = "2006-01-02"

// GameStore is the storage the importer writes to.
type GameStore interface {
	FindBySlug(ctx context.Context, slug string) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) error
	Save(ctx context.Context, game *models.Game) error
}

// Record is one game in an import file.
type Record struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ReleaseDate string   `json:"releaseDate"`
	Genres      []string `json:"genres"`
	Platforms   []string `json:"platforms"`
}

// Result counts what an import did.
type Result struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return records, nil
}

type Importer struct {
	games GameStore
	log   *zap.Logger
}

func NewImporter(games GameStore, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{games: games, log: log}
}

// Import upserts every record. Records without a title or with an
// unparsable release date are skipped and logged; store failures abort.
func (im *Importer) Import(ctx context.Context, records []Record) (Result, error) {
	var res Result
	for i, rec := range records {
		title := strings.TrimSpace(rec.Title)
		key := slug.Make(title)
		if key == "" {
			im.log.Warn("skipping game without title", zap.Int("index", i))
			res.Skipped++
			continue
		}

		release, err := parseReleaseDate(rec.ReleaseDate)
		if err != nil {
			im.log.Warn("skipping game with bad release date", zap.String("title", title), zap.Error(err))
			res.Skipped++
			continue
		}

		existing, err := im.games.FindBySlug(ctx, key)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			game := &models.Game{
				Slug:        key,
				Title:       title,
				Description: rec.Description,
				ReleaseDate: release,
				Genres:      cleanList(rec.Genres),
				Platforms:   cleanList(rec.Platforms),
			}
			if err := im.games.Create(ctx, game); err != nil {
				return res, fmt.Errorf("create %q: %w", title, err)
			}
			res.Inserted++
		case err != nil:
			return res, fmt.Errorf("lookup %q: %w", title, err)
		default:
			existing.Title = title
			existing.Description = rec.Description
			existing.ReleaseDate = release
			existing.Genres = cleanList(rec.Genres)
			existing.Platforms = cleanList(rec.Platforms)
			if err := im.games.Save(ctx, existing); err != nil {
				return res, fmt.Errorf("update %q: %w", title, err)
			}
			res.Updated++
		}
	}
	return res, nil
}

func parseReleaseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// cleanList trims entries and drops blanks and duplicates, keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
