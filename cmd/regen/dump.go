package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"regen/internal/estree"
	"regen/internal/source"
)

const stdinName = "<stdin>"

var dumpCmd = &cobra.Command{
	Use:   "dump <file.json|->",
	Short: "Print an ESTree JSON file as JavaScript-like text",
	Long:  `Decode an ESTree JSON file (or stdin with "-") and print it in the dump form without lowering it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	fileSet := source.NewFileSet()

	var id source.FileID
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		id = fileSet.AddVirtual(stdinName, data)
	} else {
		var err error
		if id, err = fileSet.Load(path); err != nil {
			return fmt.Errorf("failed to load file: %w", err)
		}
	}

	file := fileSet.Get(id)
	tree, root, err := estree.DecodeBytes(file.Content, id)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path, err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), tree.Source(root))
	return err
}
