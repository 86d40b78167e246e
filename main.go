package main

import "admincheck/cli"

func main() {
	cli.Execute()
}
