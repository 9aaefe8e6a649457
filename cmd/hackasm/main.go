package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// hackasm transforms hack assemble code files into hack binary code files, and back.

var rootCmd = &cobra.Command{
	Use:           "hackasm",
	Short:         "Assembler for the hack computer",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog complains when the go flag set was never parsed, cobra already parsed the values.
		return flag.CommandLine.Parse(nil)
	},
}

func init() {
	_ = flag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.AddCommand(asmCmd, disasmCmd)
}

func main() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}
