// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/datareset/cmd/datareset/cmd"
)

func main() {
	cmd.Execute()
}
