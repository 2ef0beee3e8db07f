package main

import (
	"fmt"
	"os"

	"github.com/terraincognita07/askesis/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "askesis:", err)
		os.Exit(1)
	}
}
