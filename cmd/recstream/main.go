package main

import "github.com/unkn0wn-root/recstream/cmd/recstream/cmd"

func main() {
	cmd.Execute()
}
