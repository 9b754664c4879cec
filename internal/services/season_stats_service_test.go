package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"sportfund/internal/logger"
	"sportfund/internal/metrics"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
	"sportfund/internal/stats"
	"sportfund/internal/testutil"
)

func newTestRegistry(t *testing.T, db *gorm.DB) *stats.Registry {
	t.Helper()
	reg, err := stats.NewRegistry(db)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return reg
}

func countFeed(t *testing.T, db *gorm.DB, athleteID, title string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.AthleteUpdate{}).
		Where("athlete_id = ? AND title = ?", athleteID, title).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count feed events: %v", err)
	}
	return count
}

func countSnapshots(t *testing.T, db *gorm.DB, table, athleteID string) int64 {
	t.Helper()
	var count int64
	if err := db.Table(table).Where("athlete_id = ?", athleteID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count snapshots: %v", err)
	}
	return count
}

func reloadAthlete(t *testing.T, db *gorm.DB, id string) *models.Athlete {
	t.Helper()
	var athlete models.Athlete
	if err := db.First(&athlete, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload athlete: %v", err)
	}
	return &athlete
}

// sampleStats holds an initial payload and a payload changing one field, per sport.
var sampleStats = map[models.Sport][2]stats.Fields{
	models.SportFootball:      {{"passing_yards": 3200, "touchdowns": 24}, {"passing_yards": 3200, "touchdowns": 25}},
	models.SportBasketball:    {{"points": 20, "assists": 5, "rebounds": 8}, {"points": 20, "assists": 5, "rebounds": 9}},
	models.SportBaseball:      {{"home_runs": 12, "era": 3.2}, {"home_runs": 13}},
	models.SportSoccer:        {{"goals": 10, "assists": 4}, {"goals": 11}},
	models.SportTennis:        {{"wins": 20, "aces": 150}, {"aces": 151}},
	models.SportGolf:          {{"rounds_played": 40, "scoring_average": 71.2}, {"scoring_average": 70.9}},
	models.SportSwimming:      {{"medals": 3, "best_freestyle_time": 52.3}, {"best_freestyle_time": 51.8}},
	models.SportTrackAndField: {{"medals": 2, "best_100m_time": 10.4}, {"best_100m_time": 10.31}},
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("identical_values_store_one_snapshot", func(t *testing.T) {
		for sport, payloads := range sampleStats {
			t.Run(string(sport), func(t *testing.T) {
				db := testutil.SetupTestDB(t)
				defer testutil.TeardownTestDB(t, db)
				reg := newTestRegistry(t, db)
				svc := NewSeasonStatsService(db, reg, NewAthleteFeedService(db), nil)
				athlete := testutil.CreateTestAthlete(t, db, string(sport))

				first, err := svc.Upsert(ctx, athlete.ID, string(sport), payloads[0])
				testutil.AssertNoError(t, err)
				if first.Outcome != UpsertCreated {
					t.Errorf("expected created, got %s", first.Outcome)
				}

				second, err := svc.Upsert(ctx, athlete.ID, string(sport), payloads[0])
				testutil.AssertNoError(t, err)
				if second.Outcome != UpsertUnchanged {
					t.Errorf("expected unchanged, got %s", second.Outcome)
				}
				if second.Snapshot.GetID() != first.Snapshot.GetID() {
					t.Error("expected the existing snapshot back")
				}

				desc, _ := reg.Lookup(string(sport))
				if n := countSnapshots(t, db, desc.Table, athlete.ID); n != 1 {
					t.Errorf("expected 1 snapshot, got %d", n)
				}
				if n := countFeed(t, db, athlete.ID, FeedTitleStatsCreated); n != 1 {
					t.Errorf("expected 1 created event, got %d", n)
				}
				if n := countFeed(t, db, athlete.ID, FeedTitleStatsUpdated); n != 0 {
					t.Errorf("expected no updated events, got %d", n)
				}
			})
		}
	})

	t.Run("changed_value_appends_snapshot", func(t *testing.T) {
		for sport, payloads := range sampleStats {
			t.Run(string(sport), func(t *testing.T) {
				db := testutil.SetupTestDB(t)
				defer testutil.TeardownTestDB(t, db)
				reg := newTestRegistry(t, db)
				svc := NewSeasonStatsService(db, reg, NewAthleteFeedService(db), nil)
				athlete := testutil.CreateTestAthlete(t, db, string(sport))

				first, err := svc.SubmitStats(ctx, athlete.ID, string(sport), payloads[0])
				testutil.AssertNoError(t, err)
				second, err := svc.SubmitStats(ctx, athlete.ID, string(sport), payloads[1])
				testutil.AssertNoError(t, err)

				if second.Outcome != UpsertUpdated {
					t.Errorf("expected updated, got %s", second.Outcome)
				}
				if second.Snapshot.GetID() == first.Snapshot.GetID() {
					t.Fatal("expected a new snapshot")
				}
				if len(second.Changes) != 1 {
					t.Errorf("expected 1 change, got %+v", second.Changes)
				}

				desc, _ := reg.Lookup(string(sport))
				if n := countSnapshots(t, db, desc.Table, athlete.ID); n != 2 {
					t.Errorf("expected 2 snapshots, got %d", n)
				}
				if n := countFeed(t, db, athlete.ID, FeedTitleStatsUpdated); n != 1 {
					t.Errorf("expected 1 updated event, got %d", n)
				}

				current := reloadAthlete(t, db, athlete.ID).CurrentStatsID(sport)
				if current == nil || *current != second.Snapshot.GetID() {
					t.Errorf("expected backpointer %s, got %v", second.Snapshot.GetID(), current)
				}
			})
		}
	})

	t.Run("unknown_sport_writes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "basketball")

		_, err := svc.Upsert(ctx, athlete.ID, "quidditch", stats.Fields{"points": 1})
		testutil.AssertAppError(t, err, "SPORT_NOT_RECOGNIZED")

		testutil.AssertRowCount(t, db, &models.AthleteUpdate{}, 0)
		if n := countSnapshots(t, db, "basketball_stats", athlete.ID); n != 0 {
			t.Errorf("expected no snapshots, got %d", n)
		}
	})

	t.Run("fraction_for_integer_column_writes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "basketball")

		for i := 0; i < 3; i++ {
			_, err := svc.Upsert(ctx, athlete.ID, "basketball", stats.Fields{"points": 20.5})
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}

		if n := countSnapshots(t, db, "basketball_stats", athlete.ID); n != 0 {
			t.Errorf("expected no snapshots, got %d", n)
		}
		testutil.AssertRowCount(t, db, &models.AthleteUpdate{}, 0)
	})

	t.Run("fraction_rejected_after_existing_snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "basketball")

		_, err := svc.Upsert(ctx, athlete.ID, "basketball", stats.Fields{"points": 20})
		testutil.AssertNoError(t, err)
		_, err = svc.Upsert(ctx, athlete.ID, "basketball", stats.Fields{"points": 20.5})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		if n := countSnapshots(t, db, "basketball_stats", athlete.ID); n != 1 {
			t.Errorf("expected 1 snapshot, got %d", n)
		}
		if n := countFeed(t, db, athlete.ID, FeedTitleStatsUpdated); n != 0 {
			t.Errorf("expected no updated events, got %d", n)
		}
	})

	t.Run("unknown_keys_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "basketball")

		first, err := svc.Upsert(ctx, athlete.ID, "basketball", stats.Fields{"nickname": "Flash"})
		testutil.AssertNoError(t, err)
		if first.Outcome != UpsertCreated {
			t.Errorf("expected created, got %s", first.Outcome)
		}
		second, err := svc.Upsert(ctx, athlete.ID, "basketball", stats.Fields{"nickname": "Bolt"})
		testutil.AssertNoError(t, err)
		if second.Outcome != UpsertUnchanged {
			t.Errorf("expected unchanged, got %s", second.Outcome)
		}
		if n := countSnapshots(t, db, "basketball_stats", athlete.ID); n != 1 {
			t.Errorf("expected 1 snapshot, got %d", n)
		}
	})

	t.Run("created_event_summarises_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), metrics.New())
		athlete := testutil.CreateTestAthlete(t, db, "basketball")

		_, err := svc.Upsert(ctx, athlete.ID, "Basketball", stats.Fields{"points": 20, "assists": 5, "rebounds": 8})
		testutil.AssertNoError(t, err)

		var update models.AthleteUpdate
		if err := db.Where("athlete_id = ?", athlete.ID).First(&update).Error; err != nil {
			t.Fatalf("expected a feed event: %v", err)
		}
		if update.Description != "Basketball: assists: 5, points: 20, rebounds: 8" {
			t.Errorf("unexpected description %q", update.Description)
		}
	})
}

func TestSeasonStatsEndToEnd(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	reg := newTestRegistry(t, db)
	svc := NewSeasonStatsService(db, reg, NewAthleteFeedService(db), nil)

	user := testutil.CreateTestUser(t, db)
	athlete := &models.Athlete{Base: models.Base{ID: "7"}, UserID: user.ID, PrimarySport: "basketball"}
	if err := db.Create(athlete).Error; err != nil {
		t.Fatalf("failed to create athlete: %v", err)
	}

	first, err := svc.SubmitStats(ctx, "7", "basketball", stats.Fields{"points": 20, "assists": 5, "rebounds": 8})
	testutil.AssertNoError(t, err)
	if first.Outcome != UpsertCreated {
		t.Fatalf("expected created, got %s", first.Outcome)
	}
	if got := reloadAthlete(t, db, "7").BasketballStatsID; got == nil || *got != first.Snapshot.GetID() {
		t.Fatalf("expected backpointer %s, got %v", first.Snapshot.GetID(), got)
	}

	repeat, err := svc.SubmitStats(ctx, "7", "basketball", stats.Fields{"points": 20, "assists": 5, "rebounds": 8})
	testutil.AssertNoError(t, err)
	if repeat.Outcome != UpsertUnchanged || repeat.Snapshot.GetID() != first.Snapshot.GetID() {
		t.Fatalf("expected unchanged %s, got %s %s", first.Snapshot.GetID(), repeat.Outcome, repeat.Snapshot.GetID())
	}
	if n := countSnapshots(t, db, "basketball_stats", "7"); n != 1 {
		t.Fatalf("expected 1 snapshot, got %d", n)
	}
	if got := reloadAthlete(t, db, "7").BasketballStatsID; got == nil || *got != first.Snapshot.GetID() {
		t.Fatal("expected backpointer unchanged")
	}

	third, err := svc.SubmitStats(ctx, "7", "basketball", stats.Fields{"points": 20, "assists": 5, "rebounds": 9})
	testutil.AssertNoError(t, err)
	if third.Outcome != UpsertUpdated {
		t.Fatalf("expected updated, got %s", third.Outcome)
	}
	if got := reloadAthlete(t, db, "7").BasketballStatsID; got == nil || *got != third.Snapshot.GetID() {
		t.Fatalf("expected backpointer %s, got %v", third.Snapshot.GetID(), got)
	}

	if n := countFeed(t, db, "7", FeedTitleStatsCreated); n != 1 {
		t.Errorf("expected 1 created event, got %d", n)
	}
	if n := countFeed(t, db, "7", FeedTitleStatsUpdated); n != 1 {
		t.Errorf("expected 1 updated event, got %d", n)
	}

	history, err := svc.GetStatsHistory(ctx, "7", "basketball", pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if history.TotalItems != 2 {
		t.Fatalf("expected 2 snapshots in history, got %d", history.TotalItems)
	}
	if history.Data[0].GetID() != third.Snapshot.GetID() || history.Data[1].GetID() != first.Snapshot.GetID() {
		t.Error("expected history newest first")
	}
	if rebounds := history.Data[1].(*models.BasketballStats).Rebounds; rebounds != 8 {
		t.Errorf("expected first snapshot retained with 8 rebounds, got %d", rebounds)
	}
}

// barrierRegistry makes every FindLatest wait until all callers have read,
// so concurrent upserts observe the same latest snapshot.
type barrierRegistry struct {
	SportRegistry
	arrived *sync.WaitGroup
}

func (r barrierRegistry) Resolve(name string) (stats.Accessor, error) {
	a, err := r.SportRegistry.Resolve(name)
	if err != nil {
		return nil, err
	}
	return barrierAccessor{Accessor: a, arrived: r.arrived}, nil
}

type barrierAccessor struct {
	stats.Accessor
	arrived *sync.WaitGroup
}

func (a barrierAccessor) FindLatest(ctx context.Context, athleteID string) (models.StatsSnapshot, error) {
	latest, err := a.Accessor.FindLatest(ctx, athleteID)
	a.arrived.Done()
	a.arrived.Wait()
	return latest, err
}

func TestSubmitStats_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	reg := newTestRegistry(t, db)
	feed := NewAthleteFeedService(db)
	athlete := testutil.CreateTestAthlete(t, db, "basketball")

	seed, err := NewSeasonStatsService(db, reg, feed, nil).
		SubmitStats(ctx, athlete.ID, "basketball", stats.Fields{"points": 20})
	testutil.AssertNoError(t, err)

	var arrived sync.WaitGroup
	arrived.Add(2)
	svc := NewSeasonStatsService(db, barrierRegistry{SportRegistry: reg, arrived: &arrived}, feed, nil)

	results := make([]*UpsertResult, 2)
	errs := make([]error, 2)
	var done sync.WaitGroup
	for i := range 2 {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			results[i], errs[i] = svc.SubmitStats(ctx, athlete.ID, "basketball", stats.Fields{"points": 21 + i})
		}(i)
	}
	done.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("upsert %d failed: %v", i, err)
		}
		if results[i].Outcome != UpsertUpdated {
			t.Errorf("upsert %d: expected updated, got %s", i, results[i].Outcome)
		}
	}

	if n := countSnapshots(t, db, "basketball_stats", athlete.ID); n != 3 {
		t.Errorf("expected both racers to append, got %d snapshots", n)
	}
	if n := countFeed(t, db, athlete.ID, FeedTitleStatsUpdated); n != 2 {
		t.Errorf("expected 2 updated events, got %d", n)
	}

	current := reloadAthlete(t, db, athlete.ID).BasketballStatsID
	if current == nil {
		t.Fatal("expected a backpointer")
	}
	if *current == seed.Snapshot.GetID() {
		t.Error("expected backpointer to move off the seed snapshot")
	}
	if *current != results[0].Snapshot.GetID() && *current != results[1].Snapshot.GetID() {
		t.Errorf("expected backpointer to be one of the racing snapshots, got %s", *current)
	}
}

func TestUpdateBackpointer(t *testing.T) {
	ctx := context.Background()

	t.Run("points_primary_sport_at_snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reg := newTestRegistry(t, db)
		svc := NewSeasonStatsService(db, reg, NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "Track and Field")

		result, err := svc.Upsert(ctx, athlete.ID, "track-and-field", stats.Fields{"medals": 1})
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateBackpointer(ctx, athlete.ID, result.Snapshot)
		testutil.AssertNoError(t, err)
		if updated.TrackAndFieldStatsID == nil || *updated.TrackAndFieldStatsID != result.Snapshot.GetID() {
			t.Errorf("expected backpointer %s, got %v", result.Snapshot.GetID(), updated.TrackAndFieldStatsID)
		}
	})

	t.Run("athlete_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)

		_, err := svc.UpdateBackpointer(ctx, "missing", &models.GolfStats{})
		testutil.AssertAppError(t, err, "ATHLETE_NOT_FOUND")
	})

	t.Run("unrecognized_primary_sport_leaves_athlete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "chess")

		snap := &models.GolfStats{}
		snap.ID = "snap-1"
		_, err := svc.UpdateBackpointer(ctx, athlete.ID, snap)
		testutil.AssertAppError(t, err, "SPORT_NOT_RECOGNIZED")

		reloaded := reloadAthlete(t, db, athlete.ID)
		if reloaded.GolfStatsID != nil {
			t.Error("expected athlete unchanged")
		}
	})
}

func TestSubmitStats(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults_to_primary_sport", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "Soccer")

		result, err := svc.SubmitStats(ctx, athlete.ID, "", stats.Fields{"goals": 3})
		testutil.AssertNoError(t, err)
		if result.Sport != models.SportSoccer {
			t.Errorf("expected soccer, got %s", result.Sport)
		}
	})

	t.Run("rejects_other_sport", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
		athlete := testutil.CreateTestAthlete(t, db, "soccer")

		_, err := svc.SubmitStats(ctx, athlete.ID, "tennis", stats.Fields{"wins": 3})
		testutil.AssertAppError(t, err, "SPORT_MISMATCH")
		if n := countSnapshots(t, db, "tennis_stats", athlete.ID); n != 0 {
			t.Errorf("expected no tennis snapshot, got %d", n)
		}
	})

	t.Run("unknown_athlete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)

		_, err := svc.SubmitStats(ctx, "missing", "soccer", stats.Fields{"goals": 3})
		testutil.AssertAppError(t, err, "ATHLETE_NOT_FOUND")
	})
}

func TestGetCurrentStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
	athlete := testutil.CreateTestAthlete(t, db, "golf")

	t.Run("no_snapshot_yet", func(t *testing.T) {
		_, err := svc.GetCurrentStats(ctx, athlete.ID, "golf")
		testutil.AssertAppError(t, err, "STATS_NOT_FOUND")
	})

	t.Run("returns_latest", func(t *testing.T) {
		_, err := svc.SubmitStats(ctx, athlete.ID, "golf", stats.Fields{"wins": 1})
		testutil.AssertNoError(t, err)
		latest, err := svc.SubmitStats(ctx, athlete.ID, "golf", stats.Fields{"wins": 2})
		testutil.AssertNoError(t, err)

		current, err := svc.GetCurrentStats(ctx, athlete.ID, "GOLF")
		testutil.AssertNoError(t, err)
		if current.GetID() != latest.Snapshot.GetID() {
			t.Errorf("expected %s, got %s", latest.Snapshot.GetID(), current.GetID())
		}
	})

	t.Run("unknown_sport", func(t *testing.T) {
		_, err := svc.GetCurrentStats(ctx, athlete.ID, "polo")
		testutil.AssertAppError(t, err, "SPORT_NOT_RECOGNIZED")
	})
}

func TestUpsert_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Set(zap.New(core).Sugar())
	t.Cleanup(func() { logger.Set(nil) })

	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)
	athlete := testutil.CreateTestAthlete(t, db, "golf")

	_, err := svc.Upsert(context.Background(), athlete.ID, "golf", stats.Fields{"rounds_played": 12})
	testutil.AssertNoError(t, err)

	entries := logs.FilterMessage("season stats upsert").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 upsert log entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "stats" {
		t.Errorf("expected logger name stats, got %q", entries[0].LoggerName)
	}
	if outcome := fmt.Sprint(entries[0].ContextMap()["outcome"]); outcome != string(UpsertCreated) {
		t.Errorf("expected created outcome, got %s", outcome)
	}
}

func TestListSports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSeasonStatsService(db, newTestRegistry(t, db), NewAthleteFeedService(db), nil)

	sports := svc.ListSports()
	if len(sports) != len(models.Sports) {
		t.Fatalf("expected %d sports, got %d", len(models.Sports), len(sports))
	}
	if sports[0].Sport != models.Sports[0] || sports[0].Label == "" {
		t.Errorf("unexpected first sport %+v", sports[0])
	}
}
