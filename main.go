package main

import "github.com/Gil-1/crewai-gamedevs/cmd"

func main() {
	cmd.Execute()
}
