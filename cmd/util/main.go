package main

import (
	"github.com/driveabci/blockstate/cmd/util/cmd"
)

func main() {
	cmd.Execute()
}
