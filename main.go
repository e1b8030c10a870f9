package main

import "github.com/cohortlabs/worksync/cmd"

func main() {
	cmd.Execute()
}
