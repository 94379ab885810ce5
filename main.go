package main

import (
	"rifa-pix/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
