package main

import "github.com/Alijeyrad/medbook_backend/cmd"

func main() {
	cmd.Execute()
}
