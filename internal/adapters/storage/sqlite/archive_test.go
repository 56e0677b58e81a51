package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/peloton/internal/domain/model"
)

func openTemp(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "pcm.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchiveNews(t *testing.T) {
	Convey("Given an empty archive", t, func() {
		ctx := context.Background()
		a := openTemp(t)
		launch := time.Date(1992, 1, 1, 9, 0, 0, 0, time.UTC)

		Convey("SeedIfEmpty publishes the two launch articles once", func() {
			seeded, err := a.SeedIfEmpty(ctx, launch)
			So(err, ShouldBeNil)
			So(seeded, ShouldBeTrue)

			seeded, err = a.SeedIfEmpty(ctx, launch)
			So(err, ShouldBeNil)
			So(seeded, ShouldBeFalse)

			list, err := a.Articles(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 2)
			So(list[0].ID, ShouldNotBeEmpty)
			So(list[0].PublishedAt.Equal(launch), ShouldBeTrue)
		})

		Convey("Articles come back newest first", func() {
			_, err := a.Publish(ctx, model.Article{Title: "Old", Author: "A", Body: "b", PublishedAt: launch})
			So(err, ShouldBeNil)
			_, err = a.Publish(ctx, model.Article{Title: "New", Author: "A", Body: "b", PublishedAt: launch.Add(time.Hour)})
			So(err, ShouldBeNil)

			list, err := a.Articles(ctx)
			So(err, ShouldBeNil)
			So(list[0].Title, ShouldEqual, "New")
			So(list[1].Title, ShouldEqual, "Old")
		})

		Convey("Publish fills id and timestamp", func() {
			art, err := a.Publish(ctx, model.Article{Title: "T", Author: "A", Body: "B"})
			So(err, ShouldBeNil)
			So(art.ID, ShouldHaveLength, 36)
			So(art.PublishedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Publish rejects incomplete articles", func() {
			_, err := a.Publish(ctx, model.Article{Title: "T", Author: " "})
			So(errors.Is(err, model.ErrInvalidArticle), ShouldBeTrue)
			list, _ := a.Articles(ctx)
			So(list, ShouldBeEmpty)
		})
	})
}

func TestArchiveSignups(t *testing.T) {
	Convey("Given an empty archive", t, func() {
		ctx := context.Background()
		a := openTemp(t)

		Convey("Signups are stored in submission order", func() {
			_, err := a.AddSignup(ctx, model.Signup{ManagerName: "Ann", Email: "ann@pcm.test", TeamID: "t1", Agree: true, Season: 1992})
			So(err, ShouldBeNil)
			_, err = a.AddSignup(ctx, model.Signup{ManagerName: "Bo", Email: "bo@pcm.test", TeamID: "t2", Note: "hi", Agree: true, Season: 1992})
			So(err, ShouldBeNil)

			list, err := a.Signups(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 2)
			So(list[0].ManagerName, ShouldEqual, "Ann")
			So(list[1].Note, ShouldEqual, "hi")
			So(list[1].Season, ShouldEqual, 1992)
			So(list[1].SubmittedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Invalid signups are refused", func() {
			_, err := a.AddSignup(ctx, model.Signup{ManagerName: "Ann", Email: "nope", TeamID: "t1", Agree: true})
			So(errors.Is(err, model.ErrInvalidSignup), ShouldBeTrue)
		})

		Convey("Pool stats are reported", func() {
			So(a.Stats(), ShouldContainKey, "open_connections")
		})
	})
}

func TestArchiveInMemory(t *testing.T) {
	Convey("An in-memory archive keeps its data across calls", t, func() {
		ctx := context.Background()
		a, err := Open(ctx, ":memory:")
		So(err, ShouldBeNil)
		defer a.Close()

		_, err = a.Publish(ctx, model.Article{Title: "T", Author: "A", Body: "B"})
		So(err, ShouldBeNil)
		list, err := a.Articles(ctx)
		So(err, ShouldBeNil)
		So(list, ShouldHaveLength, 1)
	})
}
