package main

import (
	"fmt"
	"os"

	"github.com/zurustar/mediastation/pkg/app"
)

func main() {
	if err := app.New(os.Stdout).Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
