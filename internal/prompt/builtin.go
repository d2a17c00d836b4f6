package prompt

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.md
var embedded embed.FS

// builtins is the embedded template set, rooted so names map to "<name>.md".
var builtins = func() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}()

func loadBuiltin(name string) (*Template, error) {
	return loadFromFS(builtins, name)
}
