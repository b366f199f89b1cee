package main

import "github.com/Sena-ops/a11yguard/cmd"

func main() {
	cmd.Execute()
}
