// Package views renders the person pages from embedded html/template files.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/camden-git/personsweb/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Render.
const (
	PageList    = "list"
	PageDetail  = "detail"
	PageForm    = "form"
	PageConfirm = "confirm"
)

var pageNames = []string{PageList, PageDetail, PageForm, PageConfirm}

// Page is the root value every template executes against.
type Page struct {
	Title string
	Body  any
}

// ConfirmBody asks the user to confirm a destructive action. Fields are re-posted
// with confirm=yes or confirm=no.
type ConfirmBody struct {
	Prompt    string
	Action    string
	Fields    map[string]string
	CancelURL string
}

// SortOption is one entry of the list page's sort selector.
type SortOption struct {
	Value string
	Label string
}

var sortOptions = []SortOption{
	{Value: models.SortCreated, Label: "Newest first"},
	{Value: models.SortName, Label: "Name"},
}

var funcs = template.FuncMap{
	"maxHeight":   func() int { return models.MaxHeightInCM },
	"maxWeight":   func() int { return models.MaxWeightInKG },
	"sortOptions": func() []SortOption { return sortOptions },
}

// Renderer holds one parsed template set per page, each layered over the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page to w.
func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := t.ExecuteTemplate(w, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
