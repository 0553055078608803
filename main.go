package main

import "backup-validator/cmd"

func main() {
	cmd.Execute()
}
