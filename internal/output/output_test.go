package output

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/json2raml/internal/errors"
)

func TestWriterTarget_Replace(t *testing.T) {
	var buf bytes.Buffer
	target := NewWriterTarget(&buf)

	require.NoError(t, target.Replace("type: any\n"))
	require.NoError(t, target.Replace("example: {}"))

	assert.Equal(t, "type: any\nexample: {}\n", buf.String())
	assert.Equal(t, "stdout", target.Name())
}

func TestFileTarget_ReplaceOverwritesWholeFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	target := NewFileTarget(fsys, "/out/types/User.raml")

	require.NoError(t, target.Replace("a much longer first document\n"))
	require.NoError(t, target.Replace("short\n"))

	data, err := afero.ReadFile(fsys, "/out/types/User.raml")
	require.NoError(t, err)
	assert.Equal(t, "short\n", string(data))
	assert.Equal(t, "/out/types/User.raml", target.Name())
}

func TestFileTarget_ReadOnlyFilesystem(t *testing.T) {
	target := NewFileTarget(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out/User.raml")

	err := target.Replace("x")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeOutput}))
}

func TestSession_OpensTargetOnceAndReusesIt(t *testing.T) {
	fsys := afero.NewMemMapFs()
	opened := 0
	session := NewSession(func() (Target, error) {
		opened++
		return NewFileTarget(fsys, "/User.raml"), nil
	})
	assert.Equal(t, 0, opened, "nothing is opened before the first Show")

	first, err := session.Show("one\n")
	require.NoError(t, err)
	second, err := session.Show("two\n")
	require.NoError(t, err)

	assert.Equal(t, 1, opened)
	assert.Same(t, first, second)

	data, err := afero.ReadFile(fsys, "/User.raml")
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))
}

func TestSession_OpenFailureIsRetried(t *testing.T) {
	attempts := 0
	var buf bytes.Buffer
	session := NewSession(func() (Target, error) {
		attempts++
		if attempts == 1 {
			return nil, stderrors.New("not ready")
		}
		return NewWriterTarget(&buf), nil
	})

	_, err := session.Show("x")
	require.Error(t, err)

	_, err = session.Show("y")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "y\n", buf.String())
}

func TestFileName(t *testing.T) {
	tests := []struct {
		input      string
		extension  string
		pascalCase bool
		expected   string
	}{
		{input: "user_profile.json", extension: ".raml", pascalCase: true, expected: "UserProfile.raml"},
		{input: "/data/order-item.json", extension: ".raml", pascalCase: true, expected: "OrderItem.raml"},
		{input: "user.schema.json", extension: ".raml", pascalCase: true, expected: "User.raml"},
		{input: "user_profile.json", extension: ".raml", pascalCase: false, expected: "user_profile.raml"},
		{input: "settings.jsonc", extension: ".datatype.raml", pascalCase: true, expected: "Settings.datatype.raml"},
		{input: "noext", extension: ".raml", pascalCase: true, expected: "Noext.raml"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileName(tt.input, tt.extension, tt.pascalCase))
		})
	}
}
