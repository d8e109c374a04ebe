package main

import "github.com/Beastly713/bitplane/cmd"

func main() {
	cmd.Execute()
}
