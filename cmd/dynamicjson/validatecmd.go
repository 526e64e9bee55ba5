package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/objecthub/dynamicjson-go/jsonschema"
	"github.com/objecthub/dynamicjson-go/value"
)

// errInvalidDocument signals a well-formed, unsuccessful validation run
// (as opposed to a failure to read or compile anything). The command
// returns it after printing the evaluation result, so the process exits
// non-zero.
var errInvalidDocument = errors.New("document does not conform to schema")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schemafile> [file]",
		Short: "Validate a document against a Draft 2020-12 schema",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaBytes, err := readDoc(args[0])
			if err != nil {
				return err
			}
			compiler := jsonschema.NewCompiler()
			schema, err := compiler.Compile(schemaBytes)
			if err != nil {
				return fmt.Errorf("compile schema: %w", err)
			}
			rawDoc, err := readDoc(docArg(args, 1))
			if err != nil {
				return err
			}
			instance, err := value.Decode(rawDoc)
			if err != nil {
				return fmt.Errorf("decode document: %w", err)
			}
			result := schema.ValidateValue(instance)
			enc, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			if !result.IsValid() {
				return errInvalidDocument
			}
			return nil
		},
	}
}
