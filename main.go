package main

import "github.com/notargets/gofredholm/cmd"

func main() {
	cmd.Execute()
}
