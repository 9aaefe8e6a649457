package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/xiaobogaga/hackasm/assembler"
)

var (
	asmOutputPath string
	asmStrict     bool
	asmVerbose    bool
)

var asmCmd = &cobra.Command{
	Use:   "asm sourceFile",
	Short: "Transform a hack assemble code file into hack binary code",
	Long: `Asm reads a hack assemble code file and writes one 16 characters binary word
per instruction. The output defaults to the source path with a .hack extension.

Unknown dest, comp or jump mnemonics are encoded with zero codes and reported
as warnings. With --strict they fail the run instead, and nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return assembleFile(args[0], asmOutputPath, asmStrict, asmVerbose, cmd.OutOrStdout())
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOutputPath, "output", "o", "", "the output hack binary code file path")
	asmCmd.Flags().BoolVar(&asmStrict, "strict", false, "fail on unknown mnemonics instead of encoding zero codes")
	asmCmd.Flags().BoolVar(&asmVerbose, "verbose", false, "whether print all transformed commands and symbols")
}

// defaultOutputPath replaces the extension of inputPath with ext.
func defaultOutputPath(inputPath, ext string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext
}

func assembleFile(inputPath, outputPath string, strict, verbose bool, out io.Writer) error {
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, ".hack")
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %s, err: %w", inputPath, err)
	}
	defer f.Close()

	var opts []assembler.Option
	if strict {
		opts = append(opts, assembler.WithStrictMode())
	}
	asm := assembler.CreateAssembler(opts...)
	bf := bytes.Buffer{}
	err = asm.Assemble(f, &bf)
	if err != nil {
		return fmt.Errorf("failed to parse file: %s, err: %w", inputPath, err)
	}
	for _, diagnostic := range asm.Diagnostics() {
		glog.Warningf("%s: %s", inputPath, diagnostic)
	}
	if verbose {
		for _, command := range asm.Commands() {
			fmt.Fprintln(out, command)
		}
		fmt.Fprint(out, asm.SymbolTable())
		if len(asm.Diagnostics()) > 0 {
			printer := pp.New()
			printer.SetOutput(out)
			printer.SetColoringEnabled(false)
			printer.Println(asm.Diagnostics())
		}
	}
	err = os.WriteFile(outputPath, bf.Bytes(), 0666)
	if err != nil {
		return fmt.Errorf("failed to save to path: %s, err: %w", outputPath, err)
	}
	glog.V(1).Infof("assembled %s into %s: %d instructions", inputPath, outputPath, len(asm.Commands()))
	return nil
}
