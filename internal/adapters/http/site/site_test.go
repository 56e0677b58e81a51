package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>peloton</body></html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "css"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "css", "style.css"), []byte("body{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site directory", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		dir := writeSite(t)

		Convey("When registering the site handler", func() {
			So(Register(ctx, mux, dir), ShouldBeNil)

			Convey("Then / serves index.html", func() {
				req := httptest.NewRequest("GET", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "peloton")
			})

			Convey("And nested assets are served", func() {
				req := httptest.NewRequest("GET", "/css/style.css", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
			})

			Convey("And missing files are 404", func() {
				req := httptest.NewRequest("GET", "/some-asset", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSiteMissingDir(t *testing.T) {
	Convey("Given a directory that does not exist", t, func() {
		err := Register(context.Background(), http.NewServeMux(), filepath.Join(t.TempDir(), "nope"))

		Convey("Then Register reports ErrNoDir", func() {
			So(errors.Is(err, ErrNoDir), ShouldBeTrue)
		})
	})

	Convey("Given a file instead of a directory", t, func() {
		dir := writeSite(t)
		err := Register(context.Background(), http.NewServeMux(), filepath.Join(dir, "index.html"))

		Convey("Then Register reports ErrNoDir", func() {
			So(errors.Is(err, ErrNoDir), ShouldBeTrue)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then Register panics", func() {
			So(func() {
				_ = Register(context.Background(), nil, t.TempDir())
			}, ShouldPanic)
		})
	})
}
