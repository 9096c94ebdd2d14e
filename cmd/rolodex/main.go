package main

import (
	"github.com/openclerk/rolodex/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
