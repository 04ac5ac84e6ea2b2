package main

import (
	"embed"
	"io/fs"

	"github.com/lazypower/twentyq/internal/server"
)

//go:embed all:web
var uiDist embed.FS

func init() {
	sub, err := fs.Sub(uiDist, "web")
	if err != nil {
		return
	}
	server.SetUI(sub)
}
