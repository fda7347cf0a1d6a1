package main

import "github.com/Bladed3d/lightwalker-mvp-sub003/cmd/lw/root"

func main() {
	root.Execute()
}
