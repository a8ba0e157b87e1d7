package theme

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"coinlisting/internal/domain/model"
)

//go:embed templates/*.html
var files embed.FS

// Renderer holds one parsed template set per theme plus the site index.
type Renderer struct {
	themes map[model.Theme]*template.Template
	index  *template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{themes: make(map[model.Theme]*template.Template, len(model.Themes))}
	for _, t := range model.Themes {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", t, err)
		}
		tmpl, err := clone.ParseFS(files, "templates/"+string(t)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", t, err)
		}
		r.themes[t] = tmpl
	}

	r.index, err = template.New("index.html").Funcs(funcs).ParseFS(files, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return r, nil
}

// Render writes doc under its site's theme.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	tmpl, ok := r.themes[doc.Site.Theme]
	if !ok {
		return fmt.Errorf("no templates for theme %q", doc.Site.Theme)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", doc); err != nil {
		return fmt.Errorf("render %s: %w", doc.Site.Slug, err)
	}
	return nil
}

type Index struct {
	Sites []model.Site
	Mode  model.DataMode
}

func (r *Renderer) RenderIndex(w io.Writer, idx Index) error {
	if err := r.index.ExecuteTemplate(w, "index", idx); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return nil
}
