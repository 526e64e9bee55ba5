package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandRunsPatchAndMergeSubcommands(t *testing.T) {
	dir := t.TempDir()
	doc := writeTemp(t, dir, "doc.json", `{"a":1}`)
	patchFile := writeTemp(t, dir, "ops.json", `[{"op":"add","path":"/b","value":2}]`)
	_, err := runRoot(t, "patch", patchFile, doc)
	require.NoError(t, err)

	mergeFile := writeTemp(t, dir, "merge.json", `{"a":null,"c":3}`)
	_, err = runRoot(t, "merge", mergeFile, doc)
	require.NoError(t, err)
}

func TestRootCommandHasAllSubsystems(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"query", "get", "set", "patch", "merge", "validate"} {
		assert.Contains(t, names, want)
	}
}

func TestQueryCommandPrintsMatches(t *testing.T) {
	dir := t.TempDir()
	doc := writeTemp(t, dir, "doc.json", `{"store":{"book":[{"title":"a"},{"title":"b"}]}}`)

	cmd := newQueryCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"$.store.book[*].title", doc})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `=> "a"`)
	assert.Contains(t, out.String(), `=> "b"`)
}

func TestGetSetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := writeTemp(t, dir, "doc.json", `{"a":1}`)

	getCmd := newGetCmd()
	getCmd.SetArgs([]string{"/a", doc})
	require.NoError(t, getCmd.Execute())

	setCmd := newSetCmd()
	setCmd.SetArgs([]string{"/a", "2", doc})
	require.NoError(t, setCmd.Execute())
}

func TestValidateCommandReportsInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	schema := writeTemp(t, dir, "schema.json", `{"type":"object","required":["name"]}`)
	doc := writeTemp(t, dir, "doc.json", `{}`)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{schema, doc})
	err := cmd.Execute()
	assert.ErrorIs(t, err, errInvalidDocument)
}

func TestValidateCommandAcceptsConformingDocument(t *testing.T) {
	dir := t.TempDir()
	schema := writeTemp(t, dir, "schema.json", `{"type":"object","required":["name"]}`)
	doc := writeTemp(t, dir, "doc.json", `{"name":"x"}`)

	cmd := newValidateCmd()
	cmd.SetArgs([]string{schema, doc})
	require.NoError(t, cmd.Execute())
}
