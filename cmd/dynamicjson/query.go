package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/objecthub/dynamicjson-go/jsonpath"
	"github.com/objecthub/dynamicjson-go/value"
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <path> [file]",
		Short: "Run a JSONPath query and print each result's Location and Value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readDoc(docArg(args, 1))
			if err != nil {
				return err
			}
			doc, err := value.Decode(raw)
			if err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			path, err := jsonpath.ParsePath(args[0])
			if err != nil {
				return fmt.Errorf("parse path: %w", err)
			}
			nodes, err := jsonpath.Evaluate(path, doc)
			if err != nil {
				return fmt.Errorf("evaluate path: %w", err)
			}
			for _, n := range nodes {
				enc, err := n.Value.Encode()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s => %s\n", n.Location.String(), enc)
			}
			return nil
		},
	}
}
