package main

import "github.com/jsphweid/secretpiano/cmd"

func main() {
	cmd.Execute()
}
