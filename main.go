package main

import "github.com/Alturino/journey/cmd"

func main() {
	cmd.Start()
}
