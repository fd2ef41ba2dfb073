package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	addressSchema = `{
		"type": "record", "name": "Address", "namespace": "com.example",
		"fields": [{"name": "street", "type": "string"}]
	}`
	customerSchema = `{
		"type": "record", "name": "Customer", "namespace": "com.example.crm",
		"fields": [
			{"name": "name", "type": "string"},
			{"name": "home", "type": "com.example.Address"}
		]
	}`
)

func setupInput(t *testing.T) string {
	t.Helper()

	t.Setenv("CONFIG_FILE", "")
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))

	input := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(input, "shared"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(input, "shared", "address.avsc"), []byte(addressSchema), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(input, "customer.avsc"), []byte(customerSchema), 0644))
	return input
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	// Arrange
	input := setupInput(t)
	output := t.TempDir()

	// Act
	_, err := execute("generate",
		"--input", input,
		"--output", output,
		"--import-path", "example.com/app/gen",
		"--log-level", "error",
	)

	// Assert
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(output, "com", "example", "address.gen.go"))

	data, err := os.ReadFile(filepath.Join(output, "com", "example", "crm", "customer.gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package crm")
	assert.Contains(t, string(data), `"example.com/app/gen/com/example"`)
}

func TestGenerateCommand_RequiresImportPath(t *testing.T) {
	input := setupInput(t)

	_, err := execute("generate", "--input", input, "--output", t.TempDir(), "--log-level", "error")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "import path is required")
}

func TestValidateCommand(t *testing.T) {
	input := setupInput(t)

	out, err := execute("validate", "-i", input, "--log-level", "error")

	require.NoError(t, err)
	assert.Contains(t, out, "2 schemas OK (1 shared)")
}

func TestValidateCommand_ReportsBrokenSchema(t *testing.T) {
	input := setupInput(t)
	require.NoError(t, os.WriteFile(filepath.Join(input, "broken.avsc"), []byte(`{"type": "record"`), 0644))

	_, err := execute("validate", "-i", input, "--log-level", "error")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "broken.avsc")
}

func TestValidateCommand_RequiresInput(t *testing.T) {
	setupInput(t)

	_, err := execute("validate", "--log-level", "error")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input directory is required")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	input := setupInput(t)
	output := t.TempDir()
	configFile := filepath.Join(t.TempDir(), "avropoet.yaml")
	content := "input: " + input + "\noutput: " + output + "\nimport_path: example.com/app/gen\nlogger:\n  level: error\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	_, err := execute("generate", "--config", configFile)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(output, "com", "example", "crm", "customer.gen.go"))
}
