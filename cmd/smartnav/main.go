// Package main provides the smartnav CLI: record visited directories and
// jump back to them by partial name.
package main

import "os"

func main() {
	os.Exit(NewApp().Run(os.Args))
}
