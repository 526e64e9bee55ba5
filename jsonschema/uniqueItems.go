package jsonschema

import (
	"fmt"
	"strings"

	"github.com/objecthub/dynamicjson-go/value"
)

// EvaluateUniqueItems checks if all elements in the array are unique when the "uniqueItems" property is set to true.
// According to the JSON Schema Draft 2020-12:
//   - If "uniqueItems" is false, the data always validates successfully.
//   - If "uniqueItems" is true, the data validates successfully only if all elements in the array are unique.
//
// This function only applies when the data is an array and "uniqueItems" is true.
//
// This method ensures that the array elements conform to the uniqueness constraints defined in the schema.
// If the uniqueness constraint is violated, it returns a EvaluationError detailing the issue.
//
// Reference: https://json-schema.org/draft/2020-12/json-schema-validation#name-uniqueitems
func evaluateUniqueItems(schema *Schema, data value.Value) *EvaluationError {
	// If uniqueItems is false or not set, no validation is needed
	if schema.UniqueItems == nil || !*schema.UniqueItems {
		return nil
	}

	// Determine the array length to validate
	maxLength := data.Len()

	// If items is false, only validate items defined by prefixItems
	if schema.Items != nil && schema.Items.Boolean != nil && !*schema.Items.Boolean {
		if schema.PrefixItems != nil {
			maxLength = len(schema.PrefixItems)
			if maxLength > data.Len() {
				maxLength = data.Len()
			}
		} else {
			maxLength = 0
		}
	}

	// If there are no items to validate, return immediately
	if maxLength == 0 {
		return nil
	}

	// Bucket items by structural hash, then resolve collisions with Equal.
	buckets := make(map[uint64][]int)
	for index := 0; index < maxLength; index++ {
		item, _ := data.Index(index)
		buckets[item.Hash()] = append(buckets[item.Hash()], index)
	}

	var duplicates []string
	for _, indices := range buckets {
		if len(indices) < 2 {
			continue
		}
		groups := groupEqual(data, indices)
		for _, group := range groups {
			if len(group) > 1 {
				for i := range group {
					group[i]++ // 1-based for user-friendly output
				}
				duplicates = append(duplicates, fmt.Sprintf("(%s)", strings.Trim(strings.Join(strings.Fields(fmt.Sprint(group)), ", "), "[]")))
			}
		}
	}

	if len(duplicates) > 0 {
		return NewEvaluationError("uniqueItems", "unique_items_mismatch", "Found duplicates at the following index groups: {duplicates}", map[string]any{
			"duplicates": strings.Join(duplicates, ", "),
		})
	}
	return nil
}

// groupEqual partitions indices (all sharing a Hash()) into structurally
// equal groups, since a hash collision does not imply equality.
func groupEqual(data value.Value, indices []int) [][]int {
	var groups [][]int
	for _, idx := range indices {
		item, _ := data.Index(idx)
		placed := false
		for gi, group := range groups {
			rep, _ := data.Index(group[0])
			if item.Equal(rep) {
				groups[gi] = append(group, idx)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []int{idx})
		}
	}
	return groups
}
