package main

import "github.com/quadfem/fequad/cmd"

func main() {
	cmd.Execute()
}
