package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/objecthub/dynamicjson-go/merge"
	"github.com/objecthub/dynamicjson-go/value"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <patchfile> [file]",
		Short: "Apply an RFC 7396 JSON Merge Patch document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawDoc, err := readDoc(docArg(args, 1))
			if err != nil {
				return err
			}
			target, err := value.Decode(rawDoc)
			if err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			rawPatch, err := readDoc(args[0])
			if err != nil {
				return err
			}
			p, err := value.Decode(rawPatch)
			if err != nil {
				return fmt.Errorf("decode merge patch: %w", err)
			}
			out := merge.MergePatch(target, p)
			enc, err := out.Encode()
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
}
