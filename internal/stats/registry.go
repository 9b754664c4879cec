package stats

import (
	"gorm.io/gorm"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/models"
)

// Descriptor ties a sport to its storage: the snapshot table, the Athlete
// relation that loads the current snapshot, and the backpointer column.
type Descriptor struct {
	Sport             models.Sport `json:"sport"`
	Label             string       `json:"label"`
	Table             string       `json:"-"`
	Relation          string       `json:"-"`
	BackpointerColumn string       `json:"-"`
}

// Registry resolves sport names to their snapshot accessors.
type Registry struct {
	accessors map[models.Sport]Accessor
}

// NewRegistry builds one accessor per supported sport.
func NewRegistry(db *gorm.DB) (*Registry, error) {
	r := &Registry{accessors: make(map[models.Sport]Accessor, len(models.Sports))}

	builders := []func() (Accessor, error){
		func() (Accessor, error) {
			return newSnapshotStore[models.FootballStats](db, Descriptor{
				Sport: models.SportFootball, Label: "Football",
				Relation: "FootballStats", BackpointerColumn: "football_stats_id",
			})
		},
		func() (Accessor, error) {
			return newSnapshotStore[models.BasketballStats](db, Descriptor{
				Sport: models.SportBasketball, Label: "Basketball",
				Relation: "BasketballStats", BackpointerColumn: "basketball_stats_id",
			})
		},
		func() (Accessor, error) {
			return newSnapshotStore[models.BaseballStats](db, Descriptor{
				Sport: models.SportBaseball, Label: "Baseball",
				Relation: "BaseballStats", BackpointerColumn: "baseball_stats_id",
			})
		},
		func() (Accessor, error) {
			return newSnapshotStore[models.SoccerStats](db, Descriptor{
				Sport: models.SportSoccer, Label: "Soccer",
				Relation: "SoccerStats", BackpointerColumn: "soccer_stats_id",
			})
		},
		func() (Accessor, error) {
			return newSnapshotStore[models.TennisStats](db, Descriptor{
				Sport: models.SportTennis, Label: "Tennis",
				Relation: "TennisStats", BackpointerColumn: "tennis_stats_id",
			})
		},
		func() (Accessor, error) {
			return newSnapshotStore[models.GolfStats](db, Descriptor{
				Sport: models.SportGolf, Label: "Golf",
				Relation: "GolfStats", BackpointerColumn: "golf_stats_id",
			})
		},
		func() (Accessor, error) {
			return newSnapshotStore[models.SwimmingStats](db, Descriptor{
				Sport: models.SportSwimming, Label: "Swimming",
				Relation: "SwimmingStats", BackpointerColumn: "swimming_stats_id",
			})
		},
		func() (Accessor, error) {
			return newSnapshotStore[models.TrackAndFieldStats](db, Descriptor{
				Sport: models.SportTrackAndField, Label: "Track and Field",
				Relation: "TrackAndFieldStats", BackpointerColumn: "track_and_field_stats_id",
			})
		},
	}

	for _, build := range builders {
		a, err := build()
		if err != nil {
			return nil, err
		}
		r.accessors[a.Descriptor().Sport] = a
	}
	return r, nil
}

// Resolve returns the accessor for a sport name. Unknown names yield
// ErrSportNotRecognized.
func (r *Registry) Resolve(name string) (Accessor, error) {
	sport, ok := models.ParseSport(name)
	if !ok {
		return nil, apperrors.ErrSportNotRecognized
	}
	a, ok := r.accessors[sport]
	if !ok {
		return nil, apperrors.ErrSportNotRecognized
	}
	return a, nil
}

// Lookup returns the descriptor for a sport name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	a, err := r.Resolve(name)
	if err != nil {
		return Descriptor{}, false
	}
	return a.Descriptor(), true
}

// Descriptors lists every registered sport in display order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.accessors))
	for _, s := range models.Sports {
		if a, ok := r.accessors[s]; ok {
			out = append(out, a.Descriptor())
		}
	}
	return out
}
