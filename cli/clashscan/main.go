// Package main is the clashscan command itself.
package main

import (
	"log"
	"os"

	"github.com/cellsafe/clashscan/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
