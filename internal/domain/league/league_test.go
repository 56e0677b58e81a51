package league_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() *league.Tables {
	return &league.Tables{
		Teams: []league.Row{
			{"team_id": "1", "team_name": "Banesto", "division_id": "1", "country": "ESP", "sponsor": "Banesto", "manager": "José Miguel", "budget": "2000000"},
			{"team_id": "2", "team_name": "Carrera", "division_id": "1", "country": "ITA", "sponsor": "Carrera Jeans", "manager": "unknown"},
			{"team_id": "3", "team_name": "Amaya", "division_id": "2", "country": "ESP", "sponsor": "Amaya Seguros", "manager": "UNKNOWN"},
			{"team_id": "1", "team_name": "Banesto copy"},
		},
		Riders: []league.Row{
			{"rider_id": "10", "firstname": "Miguel", "lastname": "Indurain", "team_id": "1", "country": "ESP", "age": "28",
				"stat_timetrial": "84", "stat_prologue": "80", "stat_mountain": "80", "stat_medium_mountain": "78"},
			{"rider_id": "11", "firstname": "Pedro", "lastname": "Delgado", "team_id": "1", "country": "ESP", "age": "32",
				"stat_mountain": "79", "stat_medium_mountain": "77"},
			{"rider_id": "12", "firstname": "Jesús", "lastname": "Rodríguez", "team_id": "1", "country": "ESP",
				"stat_flat": "n/a"},
			{"rider_id": "20", "firstname": "Claudio", "lastname": "Chiappucci", "team_id": "2", "country": "ITA", "age": "29",
				"stat_mountain": "80", "stat_medium_mountain": "78", "stat_hill": "76"},
			{"rider_id": "30", "firstname": "Djamolidine", "lastname": "Abdoujaparov", "team_id": "", "country": "UZB", "region": "Tashkent",
				"stat_sprint": "84", "stat_acceleration": "82"},
			{"rider_id": "10", "firstname": "Duplicate"},
			{"rider_id": "", "firstname": "Nobody"},
		},
		Divisions: []league.Row{
			{"division_id": "2", "division_name": "Pro Continental", "division_rank": "2"},
			{"division_id": "3", "division_name": "Amateur"},
			{"division_id": "1", "division_name": "World Tour", "division_rank": "1"},
		},
		Races: []league.Row{
			{"race_id": "10", "race_name": "Tour de France", "country": "FRA", "division_id": "1", "race_date": "19920704", "stage_number": "21"},
			{"race_id": "2", "race_name": "Vuelta a España", "country": "ESP", "division_id": "1", "race_date": "19920426"},
			{"race_id": "3", "race_name": "Giro d'Italia", "country": "ITA", "division_id": "1", "race_date": "19920524"},
			{"race_id": "5", "race_name": "Criterium", "division_id": "2", "race_date": "1992"},
			{"race_id": "1", "race_name": "Milano-Sanremo", "country": "ITA", "division_id": "1", "race_date": "19920321"},
		},
		Countries: []league.Row{
			{"country_id": "ESP", "country_name": "Spain"},
			{"country_id": "ITA", "country_name": "Italy"},
			{"country_id": "FRA", "country_name": "France"},
		},
	}
}

func build() (*league.Board, league.Report) {
	d, rep := league.Build(context.Background(), fixture(), league.WithSeason(1992), league.WithClock(func() time.Time {
		return time.Date(1992, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	return league.Evaluate(d), rep
}

func TestBuild(t *testing.T) {
	Convey("Given the league tables", t, func() {
		b, rep := build()

		Convey("Then duplicate and anonymous rows are dropped", func() {
			So(rep, ShouldResemble, league.Report{DuplicateRiders: 1, DuplicateTeams: 1, MissingIDs: 1})
			So(rep.Dropped(), ShouldEqual, 3)
			So(b.Dataset().Riders, ShouldHaveLength, 5)
			So(b.Dataset().Teams, ShouldHaveLength, 3)
			So(b.Dataset().LoadedAt.Year(), ShouldEqual, 1992)
		})

		Convey("Then the summary counts the league", func() {
			s := b.Summary()
			So(s.Season, ShouldEqual, 1992)
			So(s.Riders, ShouldEqual, 5)
			So(s.Races, ShouldEqual, 5)
			So(s.Unrated, ShouldEqual, 1)
		})

		Convey("Then every rider is evaluated", func() {
			ev, ok := b.Evaluation("10")
			So(ok, ShouldBeTrue)
			So(ev.Overall, ShouldResemble, rating.Rated(81))
			So(ev.Archetype, ShouldEqual, archetype.StageRacer)

			counts := b.ArchetypeCounts()
			So(counts[archetype.Sprinter], ShouldEqual, 2)
			So(counts[archetype.Climber], ShouldEqual, 2)
			So(counts[archetype.StageRacer], ShouldEqual, 1)
		})

		Convey("Then an empty table set builds an empty board", func() {
			d, rep := league.Build(context.Background(), nil)
			So(rep.Dropped(), ShouldEqual, 0)
			So(league.Evaluate(d).Summary().Riders, ShouldEqual, 0)
		})
	})
}

func TestRiders(t *testing.T) {
	Convey("Given an evaluated board", t, func() {
		b, _ := build()

		Convey("When listing all riders", func() {
			all, err := b.Riders(filter.Criteria{})
			So(err, ShouldBeNil)

			Convey("Then they are sorted by level with the unrated last", func() {
				So(all, ShouldHaveLength, 5)
				So(all[0].RiderID, ShouldEqual, "30")
				So(all[0].TeamName, ShouldEqual, "Free Agent")
				So(all[1].RiderID, ShouldEqual, "10")
				So(all[1].TeamName, ShouldEqual, "Banesto")
				So(all[1].CountryName, ShouldEqual, "Spain")
				So(all[4].RiderID, ShouldEqual, "12")
				So(all[4].Level.Label, ShouldEqual, "Unranked")
			})
		})

		Convey("When listing free agents", func() {
			fa, err := b.FreeAgents(filter.Criteria{Query: "tash"})
			So(err, ShouldBeNil)
			So(fa, ShouldHaveLength, 1)
			So(fa[0].Initials, ShouldEqual, "DA")
		})

		Convey("When the criteria are invalid", func() {
			_, err := b.Riders(filter.Criteria{Expr: "overall +"})
			So(errors.Is(err, filter.ErrInvalidExpression), ShouldBeTrue)
		})

		Convey("When asking for the top riders", func() {
			top := b.Top(2)
			So(top, ShouldHaveLength, 2)
			So(top[0].Overall.Value, ShouldEqual, 83)
			So(b.Top(-1), ShouldHaveLength, 4)
		})

		Convey("When opening a rider page", func() {
			d, err := b.Rider("10")
			So(err, ShouldBeNil)

			Convey("Then stats are sorted by value with tiers", func() {
				So(d.Stats, ShouldHaveLength, 4)
				So(d.Stats[0].Key, ShouldEqual, "stat_timetrial")
				So(d.Stats[0].Name, ShouldEqual, "Timetrial")
				So(d.Stats[0].Tier, ShouldEqual, "tier5")
				So(d.Stats[3].Key, ShouldEqual, "stat_medium_mountain")
				So(d.DivisionName, ShouldEqual, "World Tour")
				So(d.Breakdown.StageRacerBonus, ShouldBeTrue)
				So(d.Birthday, ShouldEqual, "—")
			})
		})

		Convey("When opening a missing rider", func() {
			_, err := b.Rider("999")
			So(errors.Is(err, league.ErrRiderNotFound), ShouldBeTrue)
		})
	})
}

func TestTeams(t *testing.T) {
	Convey("Given an evaluated board", t, func() {
		b, _ := build()

		Convey("When searching teams by sponsor", func() {
			cards := b.Teams("jeans", "")
			So(cards, ShouldHaveLength, 1)
			So(cards[0].ID, ShouldEqual, "2")
			So(cards[0].RiderCount, ShouldEqual, 1)
			So(cards[0].DivisionName, ShouldEqual, "World Tour")
		})

		Convey("When listing available teams", func() {
			cards := b.AvailableTeams()
			So(cards, ShouldHaveLength, 2)
			So(cards[0].Name, ShouldEqual, "Amaya")
			So(cards[1].Name, ShouldEqual, "Carrera")
		})

		Convey("When opening a team page", func() {
			d, err := b.Team("1", filter.Criteria{Query: "delgado"})
			So(err, ShouldBeNil)

			Convey("Then the roster is filtered but the KPIs are not", func() {
				So(d.Roster, ShouldHaveLength, 1)
				So(d.KPIs.Riders, ShouldEqual, 3)
				So(d.KPIs.AvgOverall, ShouldResemble, model.Num(80))
				So(d.KPIs.AvgAge, ShouldResemble, model.Num(30))
				So(d.KPIs.Budget, ShouldResemble, model.Num(2000000))
				So(d.Captains, ShouldHaveLength, 3)
				So(d.Captains[0].RiderID, ShouldEqual, "10")
			})

			Convey("Then the radar averages each axis with a floor for missing skills", func() {
				So(d.Radar, ShouldHaveLength, 6)
				So(d.Radar[0].Label, ShouldEqual, "Flat")
				So(d.Radar[0].Average, ShouldEqual, 55)
				So(d.Radar[0].Normalized, ShouldEqual, 0)
				So(d.Radar[1].Label, ShouldEqual, "Mountain")
				So(d.Radar[1].Average, ShouldAlmostEqual, 79.5, 1e-9)
				So(d.Radar[3].Normalized, ShouldAlmostEqual, (84.0-55)/31, 1e-9)
			})
		})

		Convey("When opening a missing team", func() {
			_, err := b.Team("404", filter.Criteria{})
			So(errors.Is(err, league.ErrTeamNotFound), ShouldBeTrue)
		})
	})
}

func TestNations(t *testing.T) {
	Convey("Given an evaluated board", t, func() {
		b, _ := build()

		Convey("When ranking nations", func() {
			n := b.Nations()

			Convey("Then strength is the mean of the best eight rated riders", func() {
				So(n, ShouldHaveLength, 3)
				So(n[0].CountryID, ShouldEqual, "UZB")
				So(n[0].Strength, ShouldEqual, 83)
				So(n[0].CountryName, ShouldEqual, "Country UZB")
				So(n[1].CountryID, ShouldEqual, "ESP")
				So(n[1].Strength, ShouldEqual, 80)
				So(n[1].Riders, ShouldEqual, 3)
				So(n[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When opening a nation page", func() {
			d, err := b.Nation("ESP", "pedro")
			So(err, ShouldBeNil)
			So(d.Rank, ShouldEqual, 2)
			So(d.NationalTeam, ShouldHaveLength, 3)
			So(d.Riders, ShouldHaveLength, 1)
		})

		Convey("When a country has neither a row nor riders", func() {
			_, err := b.Nation("NED", "")
			So(errors.Is(err, league.ErrCountryNotFound), ShouldBeTrue)
		})

		Convey("When a country has a row but no riders", func() {
			d, err := b.Nation("FRA", "")
			So(err, ShouldBeNil)
			So(d.Strength, ShouldEqual, 0)
			So(d.NationalTeam, ShouldBeEmpty)
		})
	})
}

func TestCalendar(t *testing.T) {
	Convey("Given an evaluated board", t, func() {
		b, _ := build()

		Convey("When listing divisions", func() {
			ds := b.Divisions()
			So(ds[0].ID, ShouldEqual, "1")
			So(ds[0].TeamCount, ShouldEqual, 2)
			So(ds[2].ID, ShouldEqual, "3")
		})

		Convey("When opening a division", func() {
			d, err := b.Division("1", "banesto")
			So(err, ShouldBeNil)
			So(d.TeamCount, ShouldEqual, 2)
			So(d.Teams, ShouldHaveLength, 1)

			_, err = b.Division("9", "")
			So(errors.Is(err, league.ErrDivisionNotFound), ShouldBeTrue)
		})

		Convey("When listing the calendar", func() {
			races := b.Calendar("", "")
			So(races, ShouldHaveLength, 5)
			So(races[0].ID, ShouldEqual, "1")
			So(races[0].DateDisplay, ShouldEqual, "1992-03-21")

			world := b.Calendar("", "1")
			So(world, ShouldHaveLength, 4)

			giro := b.Calendar("GIRO", "")
			So(giro, ShouldHaveLength, 1)
			So(giro[0].CountryName, ShouldEqual, "Italy")
		})

		Convey("When opening a race", func() {
			r, err := b.Race("5")
			So(err, ShouldBeNil)
			So(r.DateDisplay, ShouldEqual, "—")
			So(r.DivisionName, ShouldEqual, "Pro Continental")

			_, err = b.Race("nope")
			So(errors.Is(err, league.ErrRaceNotFound), ShouldBeTrue)
		})
	})
}

func TestDashboard(t *testing.T) {
	Convey("Given an evaluated board", t, func() {
		b, _ := build()

		Convey("When opening a manager dashboard", func() {
			d, err := b.Dashboard("1")
			So(err, ShouldBeNil)
			So(d.RosterSize, ShouldEqual, 3)
			So(d.AvgOverall, ShouldResemble, model.Num(80))
			So(d.TopRider.RiderID, ShouldEqual, "10")
			So(d.FreeAgents, ShouldEqual, 1)
			So(d.SeasonYear, ShouldEqual, 1992)

			Convey("Then the next races are the three earliest dated ones", func() {
				So(d.NextRaces, ShouldHaveLength, 3)
				So(d.NextRaces[0].Name, ShouldEqual, "Milano-Sanremo")
				So(d.NextRaces[1].Name, ShouldEqual, "Vuelta a España")
				So(d.NextRaces[2].Name, ShouldEqual, "Giro d'Italia")
			})
		})

		Convey("When the team does not exist", func() {
			_, err := b.Dashboard("404")
			So(errors.Is(err, league.ErrTeamNotFound), ShouldBeTrue)
		})
	})
}
