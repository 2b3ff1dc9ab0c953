package main

import "github.com/visagekit/visage/cmd"

func main() {
	cmd.Execute()
}
