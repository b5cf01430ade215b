package main

import "github.com/chrisdamba/greengrocer/cmd"

func main() {
	cmd.Execute()
}
