package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/objecthub/dynamicjson-go/ref"
	"github.com/objecthub/dynamicjson-go/value"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <pointer> [file]",
		Short: "Read the value at a JSON Pointer",
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
			p, err := ref.ParsePointer(args[0])
			if err != nil {
				return fmt.Errorf("parse pointer: %w", err)
			}
			v, ok := p.Get(doc)
			if !ok {
				return fmt.Errorf("no value at %s", args[0])
			}
			enc, err := v.Encode()
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <pointer> <value> [file]",
		Short: "Set the value at a JSON Pointer and print the resulting document",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readDoc(docArg(args, 2))
			if err != nil {
				return err
			}
			doc, err := value.Decode(raw)
			if err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			newVal, err := value.Decode([]byte(args[1]))
			if err != nil {
				return fmt.Errorf("decode value: %w", err)
			}
			p, err := ref.ParsePointer(args[0])
			if err != nil {
				return fmt.Errorf("parse pointer: %w", err)
			}
			out, err := p.Set(doc, newVal)
			if err != nil {
				return fmt.Errorf("set: %w", err)
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
