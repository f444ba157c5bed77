package main

import (
	"investorly/cmd"
	"os"

	"go.uber.org/zap"
)

func main() {
	lg := zap.S()
	lg.Infof("starting api, commit %s", os.Getenv("commit_hash"))
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		lg.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	err = apiHandler.StartApi(apiHandler.Port)
	if err != nil {
		lg.Fatal(err)
	}
}
