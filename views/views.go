// Package views holds the HTML templates and static assets of the book
// pages. Every page template is rendered by name through gin.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page and partial into one set.
func Templates() *template.Template {
	return template.Must(template.New("books").ParseFS(templateFS, "templates/*.tmpl"))
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
