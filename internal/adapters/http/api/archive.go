package api

import (
	"context"
	"net/http"

	"github.com/okian/peloton/internal/domain/model"
	"github.com/okian/peloton/pkg/logger"
)

// ArchiveDependencies persist league news and manager signups.
type ArchiveDependencies interface {
	News(ctx context.Context) ([]model.Article, error)
	PublishNews(ctx context.Context, art model.Article) (model.Article, error)
	Signup(ctx context.Context, su model.Signup) (model.Signup, error)
	Signups(ctx context.Context) ([]model.Signup, error)
}

// ArchiveHandler serves the news feed and the signup desk.
type ArchiveHandler struct {
	deps ArchiveDependencies
	rep  reporter
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(deps ArchiveDependencies, l logger.Logger) *ArchiveHandler {
	return &ArchiveHandler{deps: deps, rep: reporter{logger: l}}
}

// HandleListNews handles GET /api/news, newest first.
func (h *ArchiveHandler) HandleListNews(w http.ResponseWriter, r *http.Request) {
	arts, err := h.deps.News(r.Context())
	if err != nil {
		h.rep.fail(w, r, "api.news", err)
		return
	}
	if arts == nil {
		arts = []model.Article{}
	}
	writeJSON(w, http.StatusOK, arts)
}

// HandlePublishNews handles POST /api/news.
func (h *ArchiveHandler) HandlePublishNews(w http.ResponseWriter, r *http.Request) {
	const op = "api.publish_news"
	var art model.Article
	if err := decodeJSON(w, r, &art); err != nil {
		h.rep.fail(w, r, op, err)
		return
	}
	saved, err := h.deps.PublishNews(r.Context(), art)
	if err != nil {
		h.rep.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// HandleListSignups handles GET /api/signups.
func (h *ArchiveHandler) HandleListSignups(w http.ResponseWriter, r *http.Request) {
	sus, err := h.deps.Signups(r.Context())
	if err != nil {
		h.rep.fail(w, r, "api.signups", err)
		return
	}
	if sus == nil {
		sus = []model.Signup{}
	}
	writeJSON(w, http.StatusOK, sus)
}

// HandleSignup handles POST /api/signups.
func (h *ArchiveHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	var su model.Signup
	if err := decodeJSON(w, r, &su); err != nil {
		h.rep.fail(w, r, op, err)
		return
	}
	saved, err := h.deps.Signup(r.Context(), su)
	if err != nil {
		h.rep.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
