// Package main provides the navigator CLI.
package main

import "github.com/repotrading/navigator/internal/cli"

func main() {
	cli.Execute()
}
