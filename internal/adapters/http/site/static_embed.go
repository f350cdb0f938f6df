package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/**
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded web client.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Should never happen; the directory is part of the embed pattern.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

// IndexHTML returns the embedded landing page.
func IndexHTML() ([]byte, error) {
	return staticFS.ReadFile("static/index.html")
}
