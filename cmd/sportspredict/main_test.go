package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "import", "archive"}, names)
}

func TestImportRequiresAFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--events or --predictions")
}

func TestArchiveRejectsNegativeRetention(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"archive", "--retention-days=-1"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}
