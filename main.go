package main

import "github.com/monoid/hprof-dump-parser/cmd"

func main() {
	cmd.Execute()
}
