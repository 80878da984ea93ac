// Package templates renders the HTML fragments of the widget, the feedback
// form and the admin meta box. A theme directory may override any bundled
// template by name.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"helpful/pkg/utils"
)

const (
	Feedback = "feedback.html"
	Widget   = "widget.html"
	MetaBox  = "admin-metabox.html"
)

//go:embed *.html
var bundled embed.FS

// Provider renders a named template. It returns utils.ErrTemplateNotFound when
// it does not have one, and writes nothing in that case.
type Provider interface {
	Render(w io.Writer, name string, data any) error
}

var funcs = template.FuncMap{
	"percent": FormatPercent,
}

// FormatPercent prints a percentage with at most two decimals.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

type EmbeddedProvider struct {
	tmpl *template.Template
}

func NewEmbeddedProvider() (*EmbeddedProvider, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(bundled, "*.html")
	if err != nil {
		return nil, err
	}
	return &EmbeddedProvider{tmpl: tmpl}, nil
}

func (p *EmbeddedProvider) Render(w io.Writer, name string, data any) error {
	t := p.tmpl.Lookup(name)
	if t == nil {
		return utils.ErrTemplateNotFound
	}
	return t.Execute(w, data)
}

// DirProvider loads overrides from <dir>/helpful/<name> on every render.
type DirProvider struct {
	dir string
}

func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{dir: dir}
}

func (p *DirProvider) Render(w io.Writer, name string, data any) error {
	if p.dir == "" {
		return utils.ErrTemplateNotFound
	}
	path := filepath.Join(p.dir, "helpful", filepath.Base(name))
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return utils.ErrTemplateNotFound
		}
		return err
	}
	tmpl, err := template.New(name).Funcs(funcs).Parse(string(raw))
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// Resolver asks each provider in turn and uses the first one that has the
// template.
type Resolver struct {
	providers []Provider
}

func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{providers: providers}
}

// NewDefaultResolver prefers themeDir overrides over the bundled templates.
func NewDefaultResolver(themeDir string) (*Resolver, error) {
	embedded, err := NewEmbeddedProvider()
	if err != nil {
		return nil, err
	}
	return NewResolver(NewDirProvider(themeDir), embedded), nil
}

func (r *Resolver) Render(w io.Writer, name string, data any) error {
	for _, p := range r.providers {
		var buf bytes.Buffer
		err := p.Render(&buf, name, data)
		if errors.Is(err, utils.ErrTemplateNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		_, err = w.Write(buf.Bytes())
		return err
	}
	return utils.ErrTemplateNotFound
}

//go:embed avatar.svg
var avatar []byte

// AvatarPath is where the default avatar is served.
const AvatarPath = "/static/avatar.svg"

// DefaultAvatar returns the bundled avatar image.
func DefaultAvatar() (contentType string, body []byte) {
	return "image/svg+xml", avatar
}
