package main

import "github.com/user/aclsec/cmd"

func main() {
	cmd.Execute()
}
