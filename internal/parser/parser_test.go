package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"empty", "", nil},
		{"spaces", "cat  a\tb", []string{"cat", "a", "b"}},
		{"quotes terminate", `echo "a b" 'c'`, []string{"echo", "a", "b", "c"}},
		{"punctuation", "a;b|c&d>e<f(g)", []string{"a", "b", "c", "d", "e", "f", "g"}},
		{"equals", "--out=src/a.rs", []string{"--out", "src/a.rs"}},
		{"backtick", "echo `cat x`", []string{"echo", "cat", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.cmd))
		})
	}
}

func TestPathScannerScan(t *testing.T) {
	s := NewPathScanner("src", ".rs")

	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"plain", "cat src/domain/user_entity.rs", []string{"src/domain/user_entity.rs"}},
		{"dot prefix", "touch ./src/a_value.rs", []string{"./src/a_value.rs"}},
		{"absolute", "vim /home/u/proj/src/x_service.rs", []string{"/home/u/proj/src/x_service.rs"}},
		{"quoted target", `echo "fn x() {}" > "src/domain/a_value.rs"`, []string{"src/domain/a_value.rs"}},
		{"redirect without space", "echo x>src/a_value.rs", []string{"src/a_value.rs"}},
		{"flag value", "rustfmt --out=src/a.rs", []string{"src/a.rs"}},
		{"distinct in order", "cp src/b.rs src/a.rs && cat src/b.rs", []string{"src/b.rs", "src/a.rs"}},
		{"nested root", "cat crates/core/src/lib.rs", []string{"crates/core/src/lib.rs"}},
		{"root glued to word", "cat xsrc/a.rs", nil},
		{"trailing extension", "cp src/a.rs.bak .", nil},
		{"longer extension", "cat src/a.rsx", nil},
		{"other root", "cat lib/a.rs", nil},
		{"other extension", "cat src/a.py", nil},
		{"directory only", "ls src/", nil},
		{"no filename", "cat src/.rs", nil},
		{"no command", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Scan(tt.cmd))
		})
	}
}

func TestPathScannerRootNormalisation(t *testing.T) {
	s := NewPathScanner("/src/", ".py")
	assert.Equal(t, []string{"src/app/user_entity.py"}, s.Scan("python src/app/user_entity.py"))
}

func TestPathScannerNil(t *testing.T) {
	var s *PathScanner
	assert.Nil(t, s.Scan("cat src/a.rs"))
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"and", "cargo build && cargo test", []string{"&&"}},
		{"quoted and", `echo "a && b"`, nil},
		{"single quoted", `echo 'a || b; c'`, nil},
		{"mixed", "a || b; c | d", []string{";", "||", "|"}},
		{"background", "sleep 1 &", []string{"&"}},
		{"pipe all", "make |& tee log", []string{"|&"}},
		{"heredoc body", "cat <<EOF\na && b\nEOF\n", nil},
		{"subshell", "(cd src && ls)", []string{"&&"}},
		{"newline is not an operator", "a\nb", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.cmd)
			assert.True(t, s.Parsed)
			assert.ElementsMatch(t, tt.want, s.Operators)
		})
	}
}

func programs(s Script) []string {
	var out []string
	for _, c := range s.Commands {
		out = append(out, c.Program)
	}
	return out
}

func TestParseCommands(t *testing.T) {
	s := Parse("FOO=bar go test ./...")
	if assert.Len(t, s.Commands, 1) {
		assert.Equal(t, "go", s.Commands[0].Program)
		assert.Equal(t, []string{"test", "./..."}, s.Commands[0].Args)
	}

	s = Parse(`git add $(cat files.txt) "src/a b.rs"`)
	assert.Equal(t, []string{"git", "cat"}, programs(s))
	assert.Equal(t, []string{"add", "$(…)", "src/a b.rs"}, s.Commands[0].Args)

	s = Parse("echo $HOME ${PWD}")
	assert.Equal(t, []string{"$HOME", "${PWD}"}, s.Commands[0].Args)

	s = Parse("FOO=1")
	assert.Empty(t, s.Commands)
}

func TestScriptWords(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want []string
	}{
		{"quoted argument", `cp 'src/a b_entity.rs' "src/x y.rs"`, []string{"src/a b_entity.rs", "src/x y.rs"}},
		{"redirect target", `echo "fn a() {}" > "src/gui/a b_value.rs"`, []string{"fn a() {}", "src/gui/a b_value.rs"}},
		{"heredoc delimiter", "cat <<EOF > src/a.rs\nbody\nEOF\n", []string{"src/a.rs"}},
		{"here-string", "cat <<< src/a.rs", nil},
		{"fallback", `cp "src/a b.rs" "unterminated`, []string{"src/a b.rs", "unterminated"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.cmd).Words())
		})
	}
}

func TestParseEmpty(t *testing.T) {
	s := Parse("   ")
	assert.True(t, s.Parsed)
	assert.Empty(t, s.Commands)
	assert.Empty(t, s.Operators)
	assert.Equal(t, "   ", s.Raw)
}

func TestParseFallsBackOnSyntaxError(t *testing.T) {
	s := Parse(`echo "unterminated && rm x`)
	assert.False(t, s.Parsed)
	assert.False(t, s.HasOperator("&&"), "operator inside the open quote is ignored")
	assert.Equal(t, []string{"echo"}, programs(s))
}

func TestParseFallback(t *testing.T) {
	tests := []struct {
		name     string
		cmd      string
		ops      []string
		programs []string
	}{
		{"and", "make build && make test", []string{"&&"}, []string{"make", "make"}},
		{"or and pipe", "a || b | c", []string{"||", "|"}, []string{"a", "b", "c"}},
		{"quoted", `echo "x && y"; ls`, []string{";"}, []string{"echo", "ls"}},
		{"redirects are not operators", "cmd &> out 2>&1", nil, []string{"cmd"}},
		{"background", "server &", []string{"&"}, []string{"server"}},
		{"env prefix", "A=1 B=2 run", nil, []string{"run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseFallback(tt.cmd)
			assert.False(t, s.Parsed)
			assert.Equal(t, tt.ops, s.Operators)
			assert.Equal(t, tt.programs, programs(s))
		})
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"go test ./...", []string{"go", "test", "./..."}},
		{`echo "hello world"`, []string{"echo", "hello world"}},
		{`echo 'single quoted'`, []string{"echo", "single quoted"}},
		{`echo "it's"`, []string{"echo", "it's"}},
		{`echo hello\ world`, []string{"echo", "hello world"}},
		{`echo ''`, []string{"echo", ""}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, splitWords(tt.input))
		})
	}
}

func TestIsAssignment(t *testing.T) {
	assert.True(t, isAssignment("A=1"))
	assert.True(t, isAssignment("_x9="))
	assert.False(t, isAssignment("9a=1"))
	assert.False(t, isAssignment("=1"))
	assert.False(t, isAssignment("--out=x"))
	assert.False(t, isAssignment("plain"))
}

func TestPathScannerMatch(t *testing.T) {
	s := NewPathScanner("src", ".rs")
	assert.True(t, s.Match("src/a b_entity.rs"))
	assert.False(t, s.Match("src/a.py"))

	var nilScanner *PathScanner
	assert.False(t, nilScanner.Match("src/a.rs"))
}

func TestScriptHasOperator(t *testing.T) {
	s := Script{Operators: []string{"|", "&&"}}
	assert.True(t, s.HasOperator("&&"))
	assert.False(t, s.HasOperator("||"))
}
