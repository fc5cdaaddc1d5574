package main

import "github.com/pairup-dev/pairup/internal/cli"

func main() {
	cli.Execute()
}
