package main

import "github.com/ultrabuild/ultrabuild/cmd/root"

func main() {
	root.Execute()
}
