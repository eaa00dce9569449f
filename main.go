package main

import "github.com/skillfoundry/skillcat/cmd"

func main() {
	cmd.Execute()
}
