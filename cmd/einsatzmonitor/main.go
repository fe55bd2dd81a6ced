package main

import "github.com/freakms/ha-firecalltracking/internal/cmd"

func main() {
	cmd.Execute()
}
