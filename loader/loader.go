package loader

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/logger"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game  *lua.LTable
	items []rawDef
	shops []rawDef
	names []rawDef
}

// Load reads the game content in dir. See LoadFS.
func Load(dir string) (*state.Defs, error) {
	defs, err := LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return defs, nil
}

// LoadFS runs every top-level .lua file of fsys in a fresh sandboxed VM
// (game.lua first), compiles what they declared, and validates it. The
// VM is discarded afterwards; only the returned Defs survive.
func LoadFS(fsys fs.FS) (*state.Defs, error) {
	files, err := fs.Glob(fsys, "*.lua")
	if err != nil {
		return nil, fmt.Errorf("reading game content: %w", err)
	}
	if len(files) == 0 {
		if _, err := fs.Stat(fsys, "."); err != nil {
			return nil, fmt.Errorf("reading game content: %w", err)
		}
		return nil, fmt.Errorf("no .lua files found")
	}

	L := newVM()
	defer L.Close()
	coll := &collector{}
	registerAPI(L, coll)

	log := logger.Component("loader")
	for _, name := range sortedLuaFiles(files) {
		if err := run(L, fsys, name); err != nil {
			return nil, fmt.Errorf("executing %s: %w", name, err)
		}
		log.WithField("file", name).Debug("content file loaded")
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}
	if err := validate(defs); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"title": defs.Game.Title,
		"items": len(defs.Items),
		"shops": len(defs.Shops),
	}).Info("game loaded")
	return defs, nil
}

// run compiles one file as a chunk named after it and calls it.
func run(L *lua.LState, fsys fs.FS, name string) error {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	fn, err := L.Load(bytes.NewReader(src), name)
	if err != nil {
		return err
	}
	L.Push(fn)
	return L.PCall(0, lua.MultRet, nil)
}

// newVM returns a Lua state with only base, table, string and math
// loaded, and with every way to reach files, modules or the raw table
// primitives removed.
func newVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring", "require", "module",
		"rawset", "rawget", "rawequal", "collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	// Every random number in the game comes from the world seed.
	if m, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		m.RawSetString("random", lua.LNil)
		m.RawSetString("randomseed", lua.LNil)
	}
	return L
}
