// Package content bundles the game content shipped with the binary.
package content

import (
	"embed"
	"io/fs"
)

//go:embed crypt/*.lua
var files embed.FS

// Crypt returns "The Crypt Below", the default game.
func Crypt() fs.FS {
	sub, err := fs.Sub(files, "crypt")
	if err != nil {
		panic(err)
	}
	return sub
}
