package main

import "github.com/Mohsinsiddi/crunner/cmd"

func main() {
	cmd.Execute()
}
