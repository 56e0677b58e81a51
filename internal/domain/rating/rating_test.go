package rating_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromAttributes(t *testing.T) {
	Convey("Given rider attribute sets", t, func() {
		Convey("When every skill field is numeric", func() {
			o := rating.FromAttributes(map[string]string{"stat_a": "70", "stat_b": "80"})
			So(o, ShouldResemble, rating.Rated(75))
		})

		Convey("When three skills are given the mean covers all of them", func() {
			o := rating.FromAttributes(map[string]string{"stat_sprint": "80", "stat_mountain": "60", "stat_hill": "70"})
			So(o, ShouldResemble, rating.Rated(70))
		})

		Convey("When a skill field uses a comma separator", func() {
			o := rating.FromAttributes(map[string]string{"stat_a": "70,5", "stat_b": "71"})
			So(o, ShouldResemble, rating.Rated(71))
		})

		Convey("When some fields do not parse they are ignored", func() {
			o := rating.FromAttributes(map[string]string{"stat_a": "70", "stat_b": "", "stat_c": "abc"})
			So(o, ShouldResemble, rating.Rated(70))
		})

		Convey("When no skill field parses the rider is unrated", func() {
			So(rating.FromAttributes(map[string]string{"stat_a": "", "stat_b": "x"}), ShouldResemble, rating.Unrated)
			So(rating.FromAttributes(map[string]string{"name": "Fignon"}), ShouldResemble, rating.Unrated)
			So(rating.FromAttributes(nil), ShouldResemble, rating.Unrated)
		})

		Convey("When the mean lies on a half it rounds away from zero", func() {
			So(rating.FromAttributes(map[string]string{"stat_a": "70", "stat_b": "71"}).Value, ShouldEqual, 71)
			So(rating.FromAttributes(map[string]string{"stat_a": "-1", "stat_b": "0"}).Value, ShouldEqual, -1)
		})

		Convey("When non-skill fields are numeric they do not contribute", func() {
			o := rating.FromAttributes(map[string]string{"age": "30", "stat_a": "60"})
			So(o.Value, ShouldEqual, 60)
		})

		Convey("When values sit outside the playable range they are not clamped", func() {
			o := rating.FromAttributes(map[string]string{"stat_a": "120", "stat_b": "100"})
			So(o.Value, ShouldEqual, 110)
		})
	})
}

func TestOverallEncoding(t *testing.T) {
	Convey("Given overall ratings", t, func() {
		b, err := json.Marshal(map[string]rating.Overall{"a": rating.Rated(74), "b": rating.Unrated})
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `{"a":74,"b":null}`)

		var o rating.Overall
		So(json.Unmarshal([]byte("null"), &o), ShouldBeNil)
		So(o.Rated, ShouldBeFalse)
		So(json.Unmarshal([]byte("68"), &o), ShouldBeNil)
		So(o, ShouldResemble, rating.Rated(68))

		So(rating.Unrated.SortKey(), ShouldEqual, -1)
		So(rating.Rated(0).SortKey(), ShouldEqual, 0)
		So(rating.Unrated.String(), ShouldEqual, "—")
	})
}

func TestLevels(t *testing.T) {
	Convey("Given overall ratings at tier boundaries", t, func() {
		cases := map[int]string{85: "Elite", 80: "Elite", 79: "A", 75: "A", 74: "B", 70: "B", 69: "C", 65: "C", 64: "D", 10: "D"}
		for v, label := range cases {
			So(rating.LevelOf(rating.Rated(v)).Label, ShouldEqual, label)
		}
		So(rating.LevelOf(rating.Unrated).Label, ShouldEqual, "Unranked")
	})

	Convey("Given skill values at tier boundaries", t, func() {
		So(rating.StatTier(model.Num(80)), ShouldEqual, "tier5")
		So(rating.StatTier(model.Num(79.9)), ShouldEqual, "tier4")
		So(rating.StatTier(model.Num(70)), ShouldEqual, "tier3")
		So(rating.StatTier(model.Num(65)), ShouldEqual, "tier2")
		So(rating.StatTier(model.Num(64)), ShouldEqual, "tier1")
		So(rating.StatTier(model.Number{}), ShouldEqual, "tier1")
	})

	Convey("Given values to normalize", t, func() {
		So(rating.Normalize(40), ShouldEqual, 0)
		So(rating.Normalize(86), ShouldEqual, 1)
		So(rating.Normalize(99), ShouldEqual, 1)
		So(rating.Normalize(70.5), ShouldAlmostEqual, 0.5, 1e-9)
		So(rating.MeterPercent(model.Num(70.5)), ShouldEqual, 50)
		So(rating.MeterPercent(model.Number{}), ShouldEqual, 0)
	})
}
