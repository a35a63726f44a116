package main

import "github.com/frahmantamala/expensepro/cmd"

func main() {
	cmd.Execute()
}
