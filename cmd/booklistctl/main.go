package main

import "ctchen222/booklist/cmd/booklistctl/command"

func main() {
	command.Execute()
}
