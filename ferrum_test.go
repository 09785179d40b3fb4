// SPDX-FileCopyrightText: © 2024 The Ferrum Authors <https://github.com/ferrum-lang/ferrum/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package ferrum

import (
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrum-lang/ferrum-compiler-sub000/token"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return logger
}

func projectFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()

	for path, content := range files {
		full := "/project/" + path
		require.NoError(t, fs.MkdirAll(dirOf(full), 0o755))
		require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0o644))
	}

	return fs
}

func dirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	return path[:idx]
}

func emittedFile(t *testing.T, result *Result, path string) string {
	t.Helper()

	for _, file := range result.Code.Files {
		if file.Path == path {
			return file.Content
		}
	}

	t.Fatalf("no emitted file %q, have %v", path, result.Code.Files)

	return ""
}

func TestCompileHelloWorld(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `use ::fe::print

pub fn main()
    print("Hello, World!")
;
`,
	})

	result, err := Compile(fs, "/project", quietLogger())
	require.NoError(t, err)

	want := "pub fn main() {\n" +
		"    println!(\"Hello, World!\");\n" +
		"}\n"

	assert.Equal(t, want, emittedFile(t, result, "main.rs"))
}

func TestCompileFmtString(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `use ::fe::print

pub fn main()
    const x = 2
    const y = 3
    print("{x} + {y} = {x + y}")
;
`,
	})

	result, err := Compile(fs, "/project", quietLogger())
	require.NoError(t, err)

	want := "pub fn main() {\n" +
		"    let x = 2;\n" +
		"    let y = 3;\n" +
		"    println!(\"{} + {} = {}\", x, y, x + y);\n" +
		"}\n"

	assert.Equal(t, want, emittedFile(t, result, "main.rs"))
}

func TestCompileLoopBreakValue(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `use ::fe::print

pub fn main()
    mut i = 0
    const sum = loop
        if i > 10 then break i
        i += 1
    ;
    print("{sum}")
;
`,
	})

	result, err := Compile(fs, "/project", quietLogger())
	require.NoError(t, err)

	main := emittedFile(t, result, "main.rs")

	assert.Contains(t, main, "let mut i = 0;")
	assert.Contains(t, main, "i += 1;")
	assert.Contains(t, main, "println!(\"{}\", sum);")

	// The loop expression is emitted as a labelled host loop whose
	// valued break targets that label.
	letLoop := regexp.MustCompile(`let sum = 'label_\d+_: loop \{`)
	assert.Regexp(t, letLoop, main)

	breakValue := regexp.MustCompile(`break 'label_\d+_ i;`)
	assert.Regexp(t, breakValue, main)

	// The if statement lowered to an implicit-return if expression.
	assert.Contains(t, main, "if i > 10 {")
}

func TestCompileStructConstructGet(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `use ::fe::print

pub struct Point { pub x: Int, pub y: Int }

pub fn main()
    const p = Point { x: 3, y: 4 }
    print("{p.x},{p.y}")
;
`,
	})

	result, err := Compile(fs, "/project", quietLogger())
	require.NoError(t, err)

	want := "pub struct Point {\n" +
		"    pub x: i64,\n" +
		"    pub y: i64,\n" +
		"}\n" +
		"\n" +
		"pub fn main() {\n" +
		"    let p = Point { x: 3, y: 4 };\n" +
		"    println!(\"{},{}\", p.x, p.y);\n" +
		"}\n"

	assert.Equal(t, want, emittedFile(t, result, "main.rs"))
}

func TestCompileCrossPackageUse(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `use ::fe::print
use ./util::greet

pub fn main()
    greet()
;
`,
		"src/util/_pkg.fe": `use ::fe::print

pub fn greet()
    print("Hello from util!")
;
`,
	})

	result, err := Compile(fs, "/project", quietLogger())
	require.NoError(t, err)

	wantMain := "mod util;\n" +
		"\n" +
		"use crate::util::greet;\n" +
		"\n" +
		"pub fn main() {\n" +
		"    greet();\n" +
		"}\n"

	assert.Equal(t, wantMain, emittedFile(t, result, "main.rs"))

	wantUtil := "pub fn greet() {\n" +
		"    println!(\"Hello from util!\");\n" +
		"}\n"

	assert.Equal(t, wantUtil, emittedFile(t, result, "util/mod.rs"))
}

func TestCompileAssignToConstProducesNoOutput(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `pub fn main()
    const x = 1
    x = 2
;
`,
	})

	_, err := Build(fs, "/project", quietLogger())
	require.Error(t, err)
	assert.True(t, token.IsKind(err, token.ErrAssign), "got %v", err)

	exists, statErr := afero.DirExists(fs, "/project/.ferrum")
	require.NoError(t, statErr)
	assert.False(t, exists, "no output files may be produced on a failed compile")
}

func TestBuildWritesCrate(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"fe.project": "project hello_world\nversion \"0.2.0\"\ntarget rust\n",
		"src/_main.fe": `use ::fe::print

pub fn main()
    print("Hello, World!")
;
`,
	})

	_, err := Build(fs, "/project", quietLogger())
	require.NoError(t, err)

	cargo, err := afero.ReadFile(fs, "/project/.ferrum/compiled_rust/Cargo.toml")
	require.NoError(t, err)
	assert.Contains(t, string(cargo), `name = "hello_world"`)
	assert.Contains(t, string(cargo), `version = "0.2.0"`)

	main, err := afero.ReadFile(fs, "/project/.ferrum/compiled_rust/src/main.rs")
	require.NoError(t, err)
	assert.Contains(t, string(main), "println!(\"Hello, World!\");")
}

func TestCompileEscapedBraces(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `use ::fe::print

pub fn main()
    print("a \{ b")
;
`,
	})

	result, err := Compile(fs, "/project", quietLogger())
	require.NoError(t, err)

	// `\{` is a Fe escape; in the host format string the brace doubles.
	assert.Contains(t, emittedFile(t, result, "main.rs"), `println!("a {{ b");`)
}

func TestCompileWhileStatement(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/_main.fe": `use ::fe::print

pub fn main()
    mut i = 0
    while i < 3
        i += 1
    ;
    print("{i}")
;
`,
	})

	result, err := Compile(fs, "/project", quietLogger())
	require.NoError(t, err)

	main := emittedFile(t, result, "main.rs")

	assert.Contains(t, main, "while i < 3 {")
	assert.Contains(t, main, "println!(\"{}\", i);")
}

func TestCompileMissingMainFileFails(t *testing.T) {
	fs := projectFs(t, map[string]string{
		"src/other.fe": "pub fn f()\n    return\n;\n",
	})

	_, err := Compile(fs, "/project", quietLogger())
	require.Error(t, err)
	assert.True(t, token.IsKind(err, token.ErrIO), "got %v", err)
}
