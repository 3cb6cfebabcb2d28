package main

import (
	"github.com/mengelbart/termplay/cmdmain"
	_ "github.com/mengelbart/termplay/subcmd"
)

func main() {
	cmdmain.Main()
}
