package main

import "presshealth/internal/commands"

// main starts the pressview terminal client
func main() {
	commands.Execute()
}
