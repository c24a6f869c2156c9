package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hprofdump",
	Short: "Stream and inspect HPROF heap dumps",
	Long: `hprofdump reads the HPROF binary format emitted by JVM tooling
(jmap, HotSpot OnOutOfMemoryError dumps) and streams its records:
strings, loaded classes, stack traces, thread events and heap dump
segments with classes, instances and arrays.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
