package main

import (
	stderrors "errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/json2raml/internal/config"
	"github.com/mcncl/json2raml/internal/errors"
	"github.com/mcncl/json2raml/internal/output"
)

func newTestContext(t *testing.T, files map[string]string) *Context {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return &Context{
		Debug:  false,
		Config: config.NewConfig(),
		Fs:     fsys,
	}
}

func readFile(t *testing.T, ctx *Context, path string) string {
	t.Helper()
	data, err := afero.ReadFile(ctx.Fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_SimpleJSONToFile(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/person.json": `{"name": "John", "age": 30, "active": true}`,
	})
	CLI.Input = "/in/person.json"
	CLI.Output = "/out/Person.raml"

	require.NoError(t, run(ctx))

	expected := "#%RAML 1.0 DataType\n\n" +
		"type: object\n" +
		"properties:\n" +
		"  name:\n" +
		"    type: string\n" +
		"  age:\n" +
		"    type: integer\n" +
		"  active:\n" +
		"    type: boolean\n"
	assert.Equal(t, expected, readFile(t, ctx, "/out/Person.raml"))
}

func TestRun_WithExample(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/id.json": `{"id": 1}`,
	})
	ctx.Config.IncludeSourceAsExample = true
	CLI.Input = "/in/id.json"
	CLI.Output = "/out/Id.raml"

	require.NoError(t, run(ctx))

	content := readFile(t, ctx, "/out/Id.raml")
	assert.Contains(t, content, "    type: integer\n\nexample: {\n  \"id\": 1\n}")
}

func TestRun_SchemaInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/user.schema.json": `{
			"$schema": "http://json-schema.org/draft-07/schema#",
			"type": "object",
			"required": ["id"],
			"properties": {
				"id": {"type": "integer"},
				"nick": {"type": "string"}
			}
		}`,
	})
	CLI.Input = "/in/user.schema.json"
	CLI.Output = "/out/User.raml"

	require.NoError(t, run(ctx))

	content := readFile(t, ctx, "/out/User.raml")
	assert.Contains(t, content, "  id:\n    type: integer\n")
	assert.Contains(t, content, "  nick:\n    type: string\n    required: false\n")
	assert.NotContains(t, content, "$schema")
}

func TestRun_OutDirNamesFileAfterInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/order_item.json": `{"sku": "A-1"}`,
	})
	CLI.Input = "/in/order_item.json"
	CLI.OutDir = "/types"

	require.NoError(t, run(ctx))

	content := readFile(t, ctx, "/types/OrderItem.raml")
	assert.Contains(t, content, "  sku:\n    type: string\n")
}

func TestRun_BlankInputWritesNothing(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/blank.json": "  \n\t",
	})
	CLI.Input = "/in/blank.json"
	CLI.Output = "/out/Blank.raml"

	require.NoError(t, run(ctx))

	exists, err := afero.Exists(ctx.Fs, "/out/Blank.raml")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRun_InvalidJSON(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/bad.json": `{"invalid": json}`,
	})
	CLI.Input = "/in/bad.json"
	CLI.Output = "/out/Bad.raml"

	err := run(ctx)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidJSON))

	exists, _ := afero.Exists(ctx.Fs, "/out/Bad.raml")
	assert.False(t, exists)
}

func TestRun_CommentsNeedAllowComments(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	files := map[string]string{
		"/in/settings.jsonc": "{\n  // theme name\n  \"theme\": \"dark\",\n}\n",
	}
	CLI.Input = "/in/settings.jsonc"
	CLI.Output = "/out/Settings.raml"

	ctx := newTestContext(t, files)
	assert.Error(t, run(ctx))

	ctx = newTestContext(t, files)
	ctx.Config.Input.AllowComments = true
	require.NoError(t, run(ctx))
	assert.Contains(t, readFile(t, ctx, "/out/Settings.raml"), "  theme:\n    type: string\n")
}

func TestRun_UnsupportedSchemaKeyword(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/pet.schema.json": `{"$schema": "x", "type": "object", "properties": {"pet": {"oneOf": [{"type": "string"}]}}}`,
	})
	CLI.Input = "/in/pet.schema.json"
	CLI.Output = "/out/Pet.raml"

	err := run(ctx)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeSchema}))
}

func TestReadSource_FromFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, map[string]string{
		"/in/data.json": `[1, 2]`,
	})
	CLI.Input = "/in/data.json"

	text, err := readSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[1, 2]`, text)
}

func TestReadSource_FromStdin(t *testing.T) {
	originalCLI := CLI
	originalStdin := os.Stdin
	defer func() {
		CLI = originalCLI
		os.Stdin = originalStdin
	}()

	CLI.Input = ""
	jsonData := `{"piped": true}`

	r, w, err := os.Pipe()
	require.NoError(t, err)

	// Write test data to pipe
	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString(jsonData)
	}()

	// Replace stdin
	os.Stdin = r
	defer func() { _ = r.Close() }()

	text, err := readSource(newTestContext(t, nil))
	require.NoError(t, err)
	assert.Equal(t, jsonData, text)
}

func TestReadSource_NonExistentFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = "/in/missing.json"

	_, err := readSource(newTestContext(t, nil))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
}

func TestOpenTarget(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	ctx := newTestContext(t, nil)

	t.Run("output file", func(t *testing.T) {
		CLI = originalCLI
		CLI.Output = "/out/Explicit.raml"
		target, err := openTarget(ctx)()
		require.NoError(t, err)
		assert.Equal(t, "/out/Explicit.raml", target.Name())
	})

	t.Run("out dir", func(t *testing.T) {
		CLI = originalCLI
		CLI.Output = ""
		CLI.Input = "/in/user_profile.json"
		CLI.OutDir = "/types"
		target, err := openTarget(ctx)()
		require.NoError(t, err)
		assert.Equal(t, "/types/UserProfile.raml", target.Name())
	})

	t.Run("out dir without input", func(t *testing.T) {
		CLI = originalCLI
		CLI.Output = ""
		CLI.Input = ""
		CLI.OutDir = "/types"
		_, err := openTarget(ctx)()
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeOutput}))
	})

	t.Run("stdout", func(t *testing.T) {
		CLI = originalCLI
		CLI.Output = ""
		CLI.OutDir = ""
		target, err := openTarget(ctx)()
		require.NoError(t, err)
		assert.IsType(t, &output.WriterTarget{}, target)
	})
}

func TestNewContext_ConfigFileAndFlags(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/project/.json2raml.yml", []byte(
		"detection: marker\n"+
			"output:\n"+
			"  extension: .datatype.raml\n"+
			"  pascal_case_names: false\n"), 0o644))

	CLI = originalCLI
	CLI.Config = "/project/.json2raml.yml"
	CLI.Example = true

	ctx, err := newContext(fsys)
	require.NoError(t, err)
	assert.Equal(t, config.DetectionMarker, ctx.Config.Detection)
	assert.Equal(t, ".datatype.raml", ctx.Config.Output.Extension)
	assert.False(t, ctx.Config.Output.PascalCaseNames)
	assert.True(t, ctx.Config.IncludeSourceAsExample)
	assert.NotNil(t, ctx.Logger)
}

func TestNewContext_InvalidDetection(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI = originalCLI
	CLI.Config = ""
	CLI.Detection = "loose"

	_, err := newContext(afero.NewMemMapFs())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeConfig}))
}

func TestWatch_RequiresInput(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Input = ""
	CLI.Watch = true

	err := run(newTestContext(t, nil))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNoInput))
}
