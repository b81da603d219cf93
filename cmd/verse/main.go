package main

import "sacredverse/cmd/verse/root"

func main() {
	root.Execute()
}
