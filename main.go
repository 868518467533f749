package main

import "github.com/ValentinKolb/wordkv/cmd"

func main() {
	cmd.Execute()
}
