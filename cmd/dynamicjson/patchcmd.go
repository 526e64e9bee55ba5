package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/objecthub/dynamicjson-go/patch"
	"github.com/objecthub/dynamicjson-go/value"
)

func newPatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patch <patchfile> [file]",
		Short: "Apply an RFC 6902 JSON Patch document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawDoc, err := readDoc(docArg(args, 1))
			if err != nil {
				return err
			}
			doc, err := value.Decode(rawDoc)
			if err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			rawPatch, err := readDoc(args[0])
			if err != nil {
				return err
			}
			var ops patch.Patch
			if err := json.Unmarshal(rawPatch, &ops); err != nil {
				return fmt.Errorf("decode patch: %w", err)
			}
			out, err := patch.Apply(doc, ops)
			if err != nil {
				return fmt.Errorf("apply patch: %w", err)
			}
			enc, err := out.Encode()
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
}
