package main

import "github.com/tacogips/kickstart-salt/internal/cli"

func main() {
	cli.Execute()
}
