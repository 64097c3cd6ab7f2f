package main

import (
	"github.com/benchkv/benchkv/cmd"
)

func main() {
	cmd.Execute()
}
