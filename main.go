package main

import "github.com/glassbox3d/scenetest/cmd"

func main() {
	cmd.Execute()
}
