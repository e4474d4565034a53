// Package main is the entry point for the churnviz CLI.
package main

import (
	"github.com/huangsam/churnviz/cmd"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/scorestore"
)

func main() {
	cmd.SetStoreManager(scorestore.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	scorestore.CloseStore()
	if err != nil {
		contract.LogFatal("Cannot run churnviz", err)
	}
}
