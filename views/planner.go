package views

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/gridplan/planner"
	"github.com/eringen/gridplan/richtext"
)

// Page renders the full document around the planner fragment.
func Page(v PlannerView) templ.Component {
	return component(func(ctx context.Context, b *strings.Builder) error {
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>` + esc(v.Title) + `</title>`)
		b.WriteString(`<meta name="csrf-token"`)
		attr(b, "content", v.CSRFToken)
		b.WriteString(`><link rel="stylesheet" href="/public/app.css">`)
		b.WriteString(`<script src="/public/app.js" defer></script></head><body>`)
		b.WriteString(`<main id="planner">`)
		if err := Planner(v).Render(ctx, b); err != nil {
			return err
		}
		b.WriteString(`</main></body></html>`)
		return nil
	})
}

// Planner renders the profile header, the grid and the panel. Every
// mutation endpoint answers with this fragment.
func Planner(v PlannerView) templ.Component {
	return component(func(ctx context.Context, b *strings.Builder) error {
		if err := profileSection(ctx, b, v); err != nil {
			return err
		}
		gridSection(b, v.State.Grid)
		panelSection(b, v.State.Panel)
		return nil
	})
}

func field(ctx context.Context, b *strings.Builder, v PlannerView, f planner.Field) error {
	fv := FieldView{Field: f, Value: v.State.Profile.Value(f)}
	if v.Editing[f] {
		return FieldEditor(fv).Render(ctx, b)
	}
	return FieldDisplay(fv).Render(ctx, b)
}

func profileSection(ctx context.Context, b *strings.Builder, v PlannerView) error {
	p := v.State.Profile
	b.WriteString(`<section class="profile">`)
	b.WriteString(`<button type="button" class="avatar" data-upload="avatar" aria-label="Change profile picture">`)
	if p.Avatar != "" {
		b.WriteString(`<img alt=""`)
		attr(b, "src", p.Avatar)
		b.WriteString(`>`)
	} else {
		b.WriteString(`<span class="avatar-empty"></span>`)
	}
	b.WriteString(`</button><div class="profile-main"><div class="username">`)
	if err := field(ctx, b, v, planner.FieldUsername); err != nil {
		return err
	}
	b.WriteString(`</div><ul class="counts">`)
	for _, c := range []struct {
		f     planner.Field
		label string
	}{
		{planner.FieldPosts, "posts"},
		{planner.FieldFollowers, "followers"},
		{planner.FieldFollowing, "following"},
	} {
		b.WriteString(`<li>`)
		if err := field(ctx, b, v, c.f); err != nil {
			return err
		}
		b.WriteString(` <span>` + c.label + `</span></li>`)
	}
	b.WriteString(`</ul></div><div class="profile-text">`)
	for _, f := range []planner.Field{planner.FieldName, planner.FieldCategory, planner.FieldBio, planner.FieldLink} {
		b.WriteString(`<div>`)
		if err := field(ctx, b, v, f); err != nil {
			return err
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div><ul class="highlights">`)
	for _, h := range p.Highlights {
		b.WriteString(`<li`)
		attr(b, "data-highlight", h.ID)
		b.WriteString(`><button type="button"`)
		attr(b, "data-upload", planner.HighlightTarget{ID: h.ID}.String())
		attr(b, "aria-label", "Change cover of "+h.Name)
		b.WriteString(`>`)
		if h.ImageSrc != "" {
			b.WriteString(`<img alt=""`)
			attr(b, "src", h.ImageSrc)
			b.WriteString(`>`)
		} else {
			b.WriteString(`<span class="highlight-empty"></span>`)
		}
		b.WriteString(`</button><form class="highlight-name" method="post"`)
		attr(b, "action", "/highlights/"+h.ID+"/name")
		b.WriteString(`><input name="name" aria-label="Highlight name"`)
		attr(b, "value", h.Name)
		b.WriteString(`></form></li>`)
	}
	b.WriteString(`</ul></section>`)
	return nil
}

func gridSection(b *strings.Builder, slots []*planner.Image) {
	b.WriteString(`<section class="grid" aria-label="Grid">`)
	for i, img := range slots {
		b.WriteString(`<div class="cell" data-drop`)
		attr(b, "data-index", itoa(i))
		b.WriteString(`>`)
		if img != nil {
			b.WriteString(`<img draggable="true" data-drag-origin="grid"`)
			attr(b, "data-drag-index", itoa(i))
			attr(b, "src", img.Src)
			attr(b, "alt", "Grid image "+itoa(i+1))
			b.WriteString(`><button type="button" class="delete" aria-label="Remove from grid"`)
			attr(b, "data-delete-grid", itoa(i))
			b.WriteString(`>&times;</button>`)
		} else {
			b.WriteString(`<button type="button" class="empty"`)
			attr(b, "data-upload", planner.GridCellTarget{Index: i}.String())
			attr(b, "aria-label", "Upload to slot "+itoa(i+1))
			b.WriteString(`>+</button>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</section>`)
}

func panelSection(b *strings.Builder, images []planner.Image) {
	b.WriteString(`<section class="panel" aria-label="Images">`)
	b.WriteString(`<button type="button" class="upload" data-upload="none">Upload images</button>`)
	if len(images) == 0 {
		b.WriteString(`<p class="hint">Upload images, then drag them onto the grid.</p>`)
	}
	b.WriteString(`<ul class="panel-list">`)
	for _, img := range images {
		b.WriteString(`<li><img alt="" draggable="true" data-drag-origin="panel"`)
		attr(b, "data-drag-id", img.ID)
		attr(b, "src", img.Src)
		b.WriteString(`><button type="button" class="delete" aria-label="Delete image"`)
		attr(b, "data-delete-panel", img.ID)
		b.WriteString(`>&times;</button></li>`)
	}
	b.WriteString(`</ul></section>`)
}

// FieldDisplay renders a profile field as clickable text.
func FieldDisplay(f FieldView) templ.Component {
	return component(func(ctx context.Context, b *strings.Builder) error {
		b.WriteString(`<span role="button" tabindex="0"`)
		attr(b, "id", "field-"+string(f.Field))
		attr(b, "class", "field field-"+string(f.Field))
		attr(b, "data-field", string(f.Field))
		attr(b, "aria-label", "Edit "+f.Label())
		b.WriteString(`>`)
		switch {
		case f.Value == "":
			b.WriteString(`<span class="placeholder">` + esc(f.Label()) + `</span>`)
		case f.Field == planner.FieldBio:
			if err := richtext.Bio(f.Value).Render(ctx, b); err != nil {
				return err
			}
		case f.Field == planner.FieldLink:
			b.WriteString(esc(richtext.LinkLabel(f.Value)))
		default:
			b.WriteString(esc(f.Value))
		}
		b.WriteString(`</span>`)
		return nil
	})
}

// FieldEditor renders the inline editor of a profile field.
func FieldEditor(f FieldView) templ.Component {
	return component(func(ctx context.Context, b *strings.Builder) error {
		b.WriteString(`<form method="post"`)
		attr(b, "id", "field-"+string(f.Field))
		attr(b, "class", "field field-"+string(f.Field)+" editing")
		attr(b, "data-field", string(f.Field))
		attr(b, "action", "/profile/edit/"+string(f.Field))
		b.WriteString(`>`)
		if f.Field == planner.FieldBio {
			b.WriteString(`<textarea name="value" rows="3" autofocus`)
			attr(b, "aria-label", f.Label())
			b.WriteString(`>` + esc(f.Value) + `</textarea>`)
		} else {
			b.WriteString(`<input name="value" autofocus`)
			attr(b, "aria-label", f.Label())
			attr(b, "value", f.Value)
			b.WriteString(`>`)
		}
		b.WriteString(`</form>`)
		return nil
	})
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return message("Not found", "There is nothing here.")
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return message("Something went wrong", "Please reload the page.")
}

func message(title, text string) templ.Component {
	return component(func(ctx context.Context, b *strings.Builder) error {
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>` + esc(title) + `</title>`)
		b.WriteString(`<link rel="stylesheet" href="/public/app.css"></head><body><main class="message"><h1>`)
		b.WriteString(esc(title) + `</h1><p>` + esc(text) + `</p><a href="/">Back to the planner</a></main></body></html>`)
		return nil
	})
}
