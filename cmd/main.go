package main

import (
	"os"

	"gyani-service/internal/cli"

	"github.com/golang/glog"
)

func main() {
	defer glog.Flush()
	if err := cli.Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
}
