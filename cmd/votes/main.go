package main

import "github.com/emilythestrangee/project-votes/internal/cli"

func main() {
	cli.Execute()
}
