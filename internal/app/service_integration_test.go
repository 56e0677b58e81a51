package service_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/okian/peloton/internal/app"
	"github.com/okian/peloton/internal/adapters/storage/sqlite"
	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service wired to a source and an archive", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		archive, err := sqlite.Open(ctx, ":memory:")
		So(err, ShouldBeNil)
		defer archive.Close()

		src := &staticSource{tables: tables()}
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithDedupeSize(500),
			service.WithSource(src),
			service.WithArchive(archive),
			service.WithMaxLeaderboardLimit(10),
			service.WithArchetypeOverrides(map[string]archetype.Archetype{"30": archetype.Baroudeur}),
		)
		defer svc.Stop()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("When the first load has completed", func() {
			Convey("Then every rider is stored and the unrated one is not ranked", func() {
				stats := svc.GetStats()
				So(stats["loaded"], ShouldEqual, true)
				So(stats["totalRiders"], ShouldEqual, 5)
				So(stats["rankedRiders"], ShouldEqual, 4)
				So(stats["reloads"], ShouldEqual, int64(1))

				sum, err := svc.Summary()
				So(err, ShouldBeNil)
				So(sum.Riders, ShouldEqual, 5)
				So(sum.Unrated, ShouldEqual, 1)
			})

			Convey("Then the leaderboard is ordered with shared ranks for ties", func() {
				entries, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 4)

				So(entries[0].RiderID, ShouldEqual, "30")
				So(entries[0].Overall, ShouldEqual, 83)
				So(entries[0].Name, ShouldEqual, "Djamolidine Abdoujaparov")
				So(entries[1].RiderID, ShouldEqual, "10")
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[1].TeamID, ShouldEqual, "1")
				So(entries[2].RiderID, ShouldEqual, "11")
				So(entries[3].RiderID, ShouldEqual, "20")
				So(entries[2].Rank, ShouldEqual, 3)
				So(entries[3].Rank, ShouldEqual, 3)
			})

			Convey("Then the archetype override is applied", func() {
				e, err := svc.Rank(ctx, "30")
				So(err, ShouldBeNil)
				So(e.Archetype, ShouldEqual, archetype.Baroudeur.String())
				So(e.Classified, ShouldEqual, archetype.Sprinter.String())

				d, err := svc.Rider("30")
				So(err, ShouldBeNil)
				So(d.Archetype, ShouldEqual, archetype.Baroudeur)
				So(d.Classified, ShouldEqual, archetype.Sprinter)
				So(d.Pinned, ShouldBeTrue)

				e, err = svc.Rank(ctx, "10")
				So(err, ShouldBeNil)
				So(e.Classified, ShouldBeEmpty)
			})

			Convey("Then rank lookups report unknown riders", func() {
				_, err := svc.Rank(ctx, "999")
				So(errors.Is(err, league.ErrRiderNotFound), ShouldBeTrue)
			})

			Convey("Then limits outside 1..max are refused", func() {
				_, err := svc.TopN(ctx, 0)
				So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
				_, err = svc.TopN(ctx, 11)
				So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
			})

			Convey("Then the board views answer", func() {
				riders, err := svc.Riders(filter.Criteria{CountryID: "ESP"})
				So(err, ShouldBeNil)
				So(riders, ShouldHaveLength, 3)

				agents, err := svc.FreeAgents(filter.Criteria{})
				So(err, ShouldBeNil)
				So(agents, ShouldHaveLength, 1)

				available, err := svc.AvailableTeams()
				So(err, ShouldBeNil)
				So(available, ShouldHaveLength, 1)
				So(available[0].ID, ShouldEqual, "2")

				_, err = svc.Team("nope", filter.Criteria{})
				So(errors.Is(err, league.ErrTeamNotFound), ShouldBeTrue)

				nations, err := svc.Nations()
				So(err, ShouldBeNil)
				So(nations[0].CountryID, ShouldEqual, "UZB")

				races, err := svc.Calendar("", "")
				So(err, ShouldBeNil)
				So(races, ShouldHaveLength, 1)

				dash, err := svc.Dashboard("1")
				So(err, ShouldBeNil)
				So(dash.RosterSize, ShouldEqual, 3)
			})
		})

		Convey("When the tables change and the league is reloaded", func() {
			next := tables()
			next.Riders = append(next.Riders, league.Row{"rider_id": "40", "firstname": "Gianni", "lastname": "Bugno",
				"team_id": "2", "country": "ITA", "stat_hill": "90", "stat_flat": "88"})
			src.set(next, nil)

			rep, err := svc.Reload(ctx)

			Convey("Then the new rider leads the leaderboard", func() {
				So(err, ShouldBeNil)
				So(rep.DuplicateRiders, ShouldEqual, 1)
				entries, err := svc.TopN(ctx, 1)
				So(err, ShouldBeNil)
				So(entries[0].RiderID, ShouldEqual, "40")
				So(entries[0].Overall, ShouldEqual, 89)
			})
		})

		Convey("When a reload fails", func() {
			src.set(nil, errors.New("riders.csv vanished"))

			_, err := svc.Reload(ctx)

			Convey("Then the previous board and leaderboard stay", func() {
				So(err, ShouldNotBeNil)
				sum, err := svc.Summary()
				So(err, ShouldBeNil)
				So(sum.Riders, ShouldEqual, 5)
				entries, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 4)
			})
		})

		Convey("When the queue is too small for the roster", func() {
			small := service.New(
				service.WithWorkerCount(1),
				service.WithQueueSize(1),
				service.WithSource(&staticSource{tables: tables()}),
			)
			defer small.Stop()
			So(small.Start(ctx), ShouldBeNil)

			Convey("Then the refused riders are evaluated inline", func() {
				entries, err := small.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 4)
			})
		})

		Convey("When publishing news", func() {
			art, err := svc.PublishNews(ctx, model.Article{ID: "chosen", Title: "Transfer window opens", Author: "League Desk", Body: "Bids are due."})

			Convey("Then the id and date are assigned by the service", func() {
				So(err, ShouldBeNil)
				So(art.ID, ShouldNotEqual, "chosen")
				So(art.ID, ShouldNotBeEmpty)
				So(art.PublishedAt.IsZero(), ShouldBeFalse)

				news, err := svc.News(ctx)
				So(err, ShouldBeNil)
				So(news, ShouldHaveLength, 1)
				So(news[0].Title, ShouldEqual, "Transfer window opens")
			})

			Convey("Then an incomplete article is refused", func() {
				_, err := svc.PublishNews(ctx, model.Article{Title: "No body", Author: "x"})
				So(errors.Is(err, model.ErrInvalidArticle), ShouldBeTrue)
			})
		})

		Convey("When a manager signs up", func() {
			base := model.Signup{ManagerName: "Cyrille", Email: "c@guimard.fr", Agree: true}

			Convey("Then an available team is accepted and stamped with the season", func() {
				s := base
				s.TeamID = "2"
				s.Season = 2001
				out, err := svc.Signup(ctx, s)
				So(err, ShouldBeNil)
				So(out.Season, ShouldEqual, 1992)

				all, err := svc.Signups(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 1)
				So(all[0].TeamID, ShouldEqual, "2")
			})

			Convey("Then a managed team is refused", func() {
				s := base
				s.TeamID = "1"
				_, err := svc.Signup(ctx, s)
				So(errors.Is(err, service.ErrTeamUnavailable), ShouldBeTrue)
			})

			Convey("Then an unknown team is refused", func() {
				s := base
				s.TeamID = "77"
				_, err := svc.Signup(ctx, s)
				So(errors.Is(err, league.ErrTeamNotFound), ShouldBeTrue)
			})

			Convey("Then an invalid signup is refused", func() {
				s := base
				s.TeamID = "2"
				s.Agree = false
				_, err := svc.Signup(ctx, s)
				So(errors.Is(err, model.ErrInvalidSignup), ShouldBeTrue)
			})
		})
	})
}

func rosterTables(n int) *league.Tables {
	t := &league.Tables{
		Teams: []league.Row{{"team_id": "1", "team_name": "Banesto", "division_id": "1", "country": "ESP", "manager": "unknown"}},
	}
	for i := 0; i < n; i++ {
		t.Riders = append(t.Riders, league.Row{
			"rider_id":  "r" + strconv.Itoa(i),
			"firstname": "Rider",
			"lastname":  strconv.Itoa(i),
			"team_id":   "1",
			"country":   "ESP",
			"stat_flat": strconv.Itoa(60 + i%30),
			"stat_hill": strconv.Itoa(55 + i%25),
		})
	}
	return t
}

func TestServiceReadsDuringReload(t *testing.T) {
	Convey("Given a started service with a large roster", t, func() {
		const riders = 3000
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(riders),
			service.WithSource(&staticSource{tables: rosterTables(riders)}),
			service.WithMaxLeaderboardLimit(riders),
		)
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		last := "r" + strconv.Itoa(riders-1)

		Convey("When reloads run while the leaderboard is read", func() {
			var (
				wg        sync.WaitGroup
				reloading atomic.Bool
				reloadErr error
			)
			reloading.Store(true)
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer reloading.Store(false)
				for i := 0; i < 5; i++ {
					if _, err := svc.Reload(ctx); err != nil {
						reloadErr = err
						return
					}
				}
			}()

			var polls, missing, short int
			for done := false; !done; {
				done = !reloading.Load()
				polls++
				if _, err := svc.Rank(ctx, last); err != nil {
					missing++
				}
				entries, err := svc.TopN(ctx, riders)
				if err != nil || len(entries) != riders {
					short++
				}
			}
			wg.Wait()

			Convey("Then every read sees a complete leaderboard", func() {
				So(reloadErr, ShouldBeNil)
				So(polls, ShouldBeGreaterThan, 0)
				So(missing, ShouldEqual, 0)
				So(short, ShouldEqual, 0)
			})

			Convey("Then the rank and the board agree after the last swap", func() {
				e, err := svc.Rank(ctx, last)
				So(err, ShouldBeNil)
				d, err := svc.Rider(last)
				So(err, ShouldBeNil)
				So(e.Overall, ShouldEqual, d.Overall.Value)
				So(svc.GetStats()["totalRiders"], ShouldEqual, riders)
			})
		})
	})
}
