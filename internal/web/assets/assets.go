package assets

import (
	"embed"
	"io/fs"
)

//go:embed views static
var files embed.FS

// Views returns the page templates rooted at views/
func Views() fs.FS {
	sub, err := fs.Sub(files, "views")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the browser assets rooted at static/
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
