package siteerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CategoryCopy, SeverityError, "copy failed")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "copy failed")
	require.Contains(t, err.Error(), "disk full")
}

func TestIsCategory(t *testing.T) {
	err := New(CategoryData, SeverityFatal, "collision")
	require.True(t, IsCategory(err, CategoryData))
	require.False(t, IsCategory(err, CategoryRender))
	require.False(t, IsCategory(errors.New("plain"), CategoryData))
}

func TestIsFatal_PlainErrorsTreatedAsFatal(t *testing.T) {
	require.True(t, IsFatal(errors.New("plain")))
	require.True(t, IsFatal(New(CategoryData, SeverityFatal, "x")))
	require.False(t, IsFatal(New(CategoryRender, SeverityError, "x")))
	require.False(t, IsFatal(nil))
}

func TestConstructors_CategoryAndSeverity(t *testing.T) {
	cause := errors.New("cause")

	require.Equal(t, CategoryFrontMatter, GetCategory(MalformedFrontMatter("p.html", cause)))
	require.False(t, IsFatal(MalformedFrontMatter("p.html", cause)))

	require.True(t, IsFatal(DataKeyCollision("a.b", "a/b.json", "a/b/index.json")))
	require.True(t, IsFatal(InvalidGlobalData("bad.json", cause)))
	require.False(t, IsFatal(MissingPageData("p.html", "d.json")))
	require.False(t, IsFatal(RenderFailure("p.html", cause)))
	require.True(t, IsFatal(PluginFailure("mod", "before_build", cause)))

	require.False(t, IsFatal(CopyFailure("a", "b", false, cause)))
	require.True(t, IsFatal(CopyFailure("a", "b", true, cause)))
}

func TestCLIAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIAdapter(false, nil)

	require.Equal(t, 0, adapter.ExitCodeFor(nil))
	require.Equal(t, 1, adapter.ExitCodeFor(errors.New("plain")))
	require.Equal(t, 2, adapter.ExitCodeFor(New(CategoryConfig, SeverityFatal, "x")))
	require.Equal(t, 3, adapter.ExitCodeFor(New(CategoryData, SeverityFatal, "x")))
	require.Equal(t, 4, adapter.ExitCodeFor(New(CategoryPlugin, SeverityFatal, "x")))
	require.Equal(t, 5, adapter.ExitCodeFor(New(CategoryRender, SeverityError, "x")))
	require.Equal(t, 6, adapter.ExitCodeFor(New(CategoryWatch, SeverityFatal, "x")))
}

func TestWithContext_Accumulates(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "bad").
		WithContext("path", "config.yaml").
		WithContext("field", "base_url")
	require.Equal(t, "config.yaml", err.Context["path"])
	require.Equal(t, "base_url", err.Context["field"])
}
