// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package web holds the map client: HTML pages rendered with html/template
// and the static assets they load, both embedded in the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageIndex   = "index"
	PageHome    = "home"
	PagePrivacy = "privacy"
)

// IndexData is rendered into the index page. The map is only drawn for a
// signed-in athlete; everyone else gets the connect page.
type IndexData struct {
	LoggedIn bool
	OSKey    string
}

// Pages renders the server-side HTML pages.
type Pages struct {
	tmpl  *template.Template
	osKey string
}

// NewPages parses the embedded templates. osKey is the Ordnance Survey API
// key the map client uses for tiles.
func NewPages(osKey string) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{tmpl: tmpl, osKey: osKey}, nil
}

// OSKey returns the map tile key.
func (p *Pages) OSKey() string {
	return p.osKey
}

// Render writes the named page to w.
func (p *Pages) Render(w io.Writer, page string, data any) error {
	t := p.tmpl.Lookup(page + ".html")
	if t == nil {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.Execute(w, data)
}

// Static serves the embedded assets. Mount it under a stripped /static/
// prefix.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embed pattern above guarantees the directory exists.
		panic(err)
	}
	return http.FileServerFS(sub)
}
