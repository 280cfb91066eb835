package main

import "github.com/MatthewBrawders/Tome/cmd/cli/command"

func main() {
	command.Execute()
}
