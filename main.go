package main

import "github.com/AlhaqGH/plhub/cmd"

func main() {
	cmd.Execute()
}
