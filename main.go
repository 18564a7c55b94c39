package main

import "github.com/khonager/Trans/cmd"

func main() {
	cmd.Execute()
}
