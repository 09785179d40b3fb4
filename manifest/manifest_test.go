// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func TestLoadDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/My-App", 0o755))

	m, err := Load(fs, "/work/My-App")
	require.NoError(t, err)

	assert.Equal(t, "my_app", m.Name)
	assert.Equal(t, "0.1.0", m.Version)
	assert.Equal(t, DefaultTarget, m.Target)
}

func TestLoadManifestFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/fe.project", []byte(
		"project hello_world\nversion \"1.2.3\"\ntarget rust\n",
	), 0o644))

	m, err := Load(fs, "/p")
	require.NoError(t, err)

	assert.Equal(t, "hello_world", m.Name)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, "rust", m.Target)
}

func TestLoadPartialManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/fe.project", []byte(
		"project tool\n",
	), 0o644))

	m, err := Load(fs, "/p")
	require.NoError(t, err)

	assert.Equal(t, "tool", m.Name)
	assert.Equal(t, "0.1.0", m.Version)
}

func TestLoadRejectsBadVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/fe.project", []byte(
		"version \"not-a-version\"\n",
	), 0o644))

	_, err := Load(fs, "/p")
	require.Error(t, err)
	assert.True(t, token.IsKind(err, token.ErrParse), "got %v", err)
}

func TestLoadRejectsUnknownTarget(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/fe.project", []byte(
		"target zig\n",
	), 0o644))

	_, err := Load(fs, "/p")
	require.Error(t, err)
	assert.True(t, token.IsKind(err, token.ErrUnsupported), "got %v", err)
}

func TestLoadRejectsGarbage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/fe.project", []byte(
		"??? nonsense",
	), 0o644))

	_, err := Load(fs, "/p")
	require.Error(t, err)
	assert.True(t, token.IsKind(err, token.ErrParse), "got %v", err)
}
