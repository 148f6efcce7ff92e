package main

import "github.com/gaurav-prasanna/bookvoice/cmd"

func main() {
	cmd.Execute()
}
