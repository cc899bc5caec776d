package main

import "github.com/okami-inn/okami/cmd"

func main() {
	cmd.Execute()
}
