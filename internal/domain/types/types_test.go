package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/peloton/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given a leaderboard entry", t, func() {
		e := types.Entry{Rank: 1, RiderID: "17", Name: "Miguel Indurain", TeamID: "2", Overall: 81, Archetype: "Stage Racer"}

		Convey("When it is encoded", func() {
			b, err := json.Marshal(e)

			Convey("Then it uses the wire field names", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"rank":1,"rider_id":"17","name":"Miguel Indurain","team_id":"2","overall":81,"type":"Stage Racer"}`)
			})
		})

		Convey("When it is decoded from a server response", func() {
			var got []types.Entry
			err := json.Unmarshal([]byte(`[{"rank":2,"rider_id":"4","overall":77,"type":"Climber"}]`), &got)

			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].Rank, ShouldEqual, 2)
			So(got[0].Archetype, ShouldEqual, "Climber")
		})
	})
}
