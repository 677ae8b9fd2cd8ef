package main

import "github.com/hongminglow/auth-smoke/cmd/authsmoke/cmd"

func main() {
	cmd.Execute()
}
