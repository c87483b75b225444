package main

import "github.com/vancomm/buscaminas/cmd/sweep/cmd"

func main() {
	cmd.Execute()
}
