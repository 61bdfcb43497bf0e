package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"process", "batch", "export", "chunk", "cleanup", "runs", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "docproc", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestProcessCommand_Flags(t *testing.T) {
	flag := processCmd.Flags().Lookup("file")
	require.NotNil(t, flag, "process command should have --file flag")

	ocrFlag := processCmd.Flags().Lookup("ocr")
	require.NotNil(t, ocrFlag, "process command should have --ocr flag")
}

func TestBatchCommand_Flags(t *testing.T) {
	for _, name := range []string{"dir", "output", "ocr", "limit", "workers"} {
		assert.NotNil(t, batchCmd.Flags().Lookup(name), "expected --%s flag", name)
	}
}
