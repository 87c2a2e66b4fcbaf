package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualFileFor(t *testing.T) {
	vf := VirtualFileFor(filepath.Join("src", "app", "app.component.html"))
	assert.Equal(t, "app.component.html", vf.Name)
	assert.Equal(t, filepath.Join("src", "app"), vf.Dir)
}

func TestCommandEngine_NullMeansAbsent(t *testing.T) {
	e := NewCommandEngine([]string{"sh", "-c", "cat >/dev/null; echo null"})

	res, err := e.Lint(context.Background(), "<div></div>", VirtualFile{Name: "a.html", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCommandEngine_DecodesResult(t *testing.T) {
	script := `cat >/dev/null; printf '%s' '{"filePath":"'"$NGX_MARKUPLINT_DIRNAME/$NGX_MARKUPLINT_NAME"'","sourceCode":"<img>","fixedCode":"<img>","status":false,` +
		`"violations":[{"ruleId":"required-attr","severity":"error","message":"alt is required","line":1,"col":1,"raw":"<img>"}]}'`
	e := NewCommandEngine([]string{"sh", "-c", script})
	dir := t.TempDir()

	res, err := e.Lint(context.Background(), "<img>", VirtualFile{Name: "a.html", Dir: dir})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, dir+"/a.html", res.FilePath)
	assert.False(t, res.Status)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, Violation{
		RuleID:   "required-attr",
		Severity: "error",
		Message:  "alt is required",
		Line:     1,
		Col:      1,
		Raw:      "<img>",
	}, res.Violations[0])
}

func TestCommandEngine_ReceivesMarkup(t *testing.T) {
	// Echo the request back as the "sourceCode" of the result.
	script := `req=$(cat); printf '{"sourceCode":%s,"violations":[]}' "$(printf '%s' "$req" | sed 's/.*"markup":\("[^"]*"\).*/\1/')"`
	e := NewCommandEngine([]string{"sh", "-c", script})

	res, err := e.Lint(context.Background(), "<p>", VirtualFile{Name: "a.html", Dir: t.TempDir()})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "<p>", res.SourceCode)
}

func TestCommandEngine_FailureWrapsSentinel(t *testing.T) {
	e := NewCommandEngine([]string{"sh", "-c", "cat >/dev/null; exit 1"})

	_, err := e.Lint(context.Background(), "<p>", VirtualFile{Name: "a.html", Dir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEngineFailed)
}
