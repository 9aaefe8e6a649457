package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/xiaobogaga/hackasm/assembler"
)

var disasmOutputPath string

var disasmCmd = &cobra.Command{
	Use:   "disasm binaryFile",
	Short: "Transform a hack binary code file back into assemble code",
	Long: `Disasm reads one 16 characters binary word per line and prints the canonical
assemble code of each instruction. Labels and variable names are not recovered,
addresses are printed as constants.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return disassembleFile(args[0], disasmOutputPath, cmd.OutOrStdout())
	},
}

func init() {
	disasmCmd.Flags().StringVarP(&disasmOutputPath, "output", "o", "", "the output file path, stdout if empty")
}

func disassembleFile(inputPath, outputPath string, out io.Writer) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %s, err: %w", inputPath, err)
	}
	defer f.Close()
	codes, err := assembler.DisassembleAll(f)
	if err != nil {
		return fmt.Errorf("failed to disassemble file: %s, err: %w", inputPath, err)
	}
	var sb strings.Builder
	for _, code := range codes {
		sb.WriteString(code)
		sb.WriteByte('\n')
	}
	if outputPath == "" {
		_, err = io.WriteString(out, sb.String())
		return err
	}
	err = os.WriteFile(outputPath, []byte(sb.String()), 0666)
	if err != nil {
		return fmt.Errorf("failed to save to path: %s, err: %w", outputPath, err)
	}
	glog.V(1).Infof("disassembled %s into %s: %d instructions", inputPath, outputPath, len(codes))
	return nil
}
