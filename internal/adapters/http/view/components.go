// Package view renders the HTML pages of the league with templ components.
package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/internal/domain/model"
)

const pageCSS = `body{font-family:system-ui,sans-serif;margin:2rem;background:#f7f7f9;color:#222}
.card{background:#fff;border-radius:8px;padding:1.5rem;max-width:40rem;box-shadow:0 1px 3px rgba(0,0,0,.15)}
.level{display:inline-block;padding:.1rem .5rem;border-radius:4px;background:#eee}
.level.elite{background:#f5c542}.level.a{background:#9ad0f5}.level.b{background:#b6e3a8}
table{border-collapse:collapse}td,th{padding:.3rem .7rem;text-align:left;border-bottom:1px solid #ddd}
.meter{background:#eee;width:10rem;height:.5rem}.meter span{display:block;height:100%;background:#3a7bd5}`

// page wraps body in the shared document shell.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>",
			templ.EscapeString(title), pageCSS); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// RiderCard renders one rider's card: identity, level, archetype and the
// skill fields strongest first.
func RiderCard(d league.RiderDetail) templ.Component {
	return page(d.Name, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		team := d.TeamName
		if d.FreeAgent {
			team = "Free Agent"
		}
		country := d.CountryName
		if country == "" {
			country = d.CountryID
		}
		pinned := ""
		if d.Pinned {
			pinned = " <small class=\"pinned\">(classified " + templ.EscapeString(d.Classified.String()) + ")</small>"
		}
		if _, err := fmt.Fprintf(w,
			"<div class=\"card\"><h1>%s</h1><p>%s · %s</p><p><span class=\"level %s\">%s</span> Overall <strong>%s</strong> · %s%s</p>",
			templ.EscapeString(d.Name),
			templ.EscapeString(team),
			templ.EscapeString(country),
			templ.EscapeString(d.Level.Tone),
			templ.EscapeString(d.Level.Label),
			templ.EscapeString(d.Overall.String()),
			templ.EscapeString(d.Archetype.String()),
			pinned,
		); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<table><thead><tr><th>Skill</th><th>Value</th><th></th></tr></thead><tbody>"); err != nil {
			return err
		}
		for _, st := range d.Stats {
			if _, err := fmt.Fprintf(w,
				"<tr class=\"%s\"><td>%s</td><td>%s</td><td><div class=\"meter\"><span style=\"width:%d%%\"></span></div></td></tr>",
				templ.EscapeString(st.Tier),
				templ.EscapeString(st.Name),
				templ.EscapeString(number(st.Value)),
				st.Meter,
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table></div>")
		return err
	}))
}

// NationsPage renders the national rankings table.
func NationsPage(rows []league.NationStrength) templ.Component {
	return page("National Rankings", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			"<h1>National Rankings</h1><table><thead><tr><th>#</th><th>Nation</th><th>Riders</th><th>Strength</th></tr></thead><tbody>"); err != nil {
			return err
		}
		for _, n := range rows {
			name := n.CountryName
			if name == "" {
				name = n.CountryID
			}
			if _, err := fmt.Fprintf(w,
				"<tr><td>%d</td><td>%s %s</td><td>%d</td><td>%d</td></tr>",
				n.Rank,
				templ.EscapeString(n.Flag),
				templ.EscapeString(name),
				n.Riders,
				n.Strength,
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table>")
		return err
	}))
}

func number(n model.Number) string {
	if !n.Valid {
		return "—"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
