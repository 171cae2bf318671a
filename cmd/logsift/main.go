package main

import "github.com/logsift/logsift/internal/cmd"

func main() {
	cmd.Execute()
}
