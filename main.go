package main

import "github.com/twiced-technology-gmbh/pivotboard/cmd"

func main() {
	cmd.Execute()
}
