package main

import "github.com/clf-downloader/clf/cmd"

func main() {
	cmd.Execute()
}
