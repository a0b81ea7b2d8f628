package main

import cmd "github.com/kerbaras/mangas-reader/cmd/mangas"

func main() {
	cmd.Execute()
}
