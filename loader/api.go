package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the content constructors as globals.
//
//	Game { title = "...", seed = 7, player = { ... } }
//	Item "id" { kind = "weapon", value = 40, attack = 3 }
//	Shop "id" { name = "...", town = { x = 1, y = 2 }, stock = { "id", ... } }
//	Names "fr" { slime = "Gelée" }
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))
	L.SetGlobal("Item", curried(L, &coll.items))
	L.SetGlobal("Shop", curried(L, &coll.shops))
	L.SetGlobal("Names", curried(L, &coll.names))

	// Stock(...) builds a stock list from varargs: Stock("a", "b").
	L.SetGlobal("Stock", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		for i := 1; i <= L.GetTop(); i++ {
			tbl.Append(lua.LString(L.CheckString(i)))
		}
		L.Push(tbl)
		return 1
	}))
}

// curried returns a constructor of the form Name "id" { ... } that appends
// to dst.
func curried(L *lua.LState, dst *[]rawDef) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	})
}
