package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><head><title>t</title></head><body>
<h1>Welcome</h1>
<p>First paragraph with a <a href="#">link inside</a> it.</p>
<p>Second paragraph.</p>
<script>var x = "not text";</script>
<pre>code stays</pre>
<ul><li>Alpha</li><li>Beta</li></ul>
</body></html>`

func TestScanGroupsByBlock(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	groups, err := doc.Scan()
	require.NoError(t, err)

	// h1, p（含行内链接）, p, li, li
	require.Len(t, groups, 5)

	assert.Equal(t, "Welcome", groups[0].Fragments[0].Text)

	// 行内元素的文本并入所在块的分组
	var texts []string
	for _, f := range groups[1].Fragments {
		texts = append(texts, f.Text)
	}
	assert.Equal(t, []string{"First paragraph with a ", "link inside", " it."}, texts)

	assert.Equal(t, "Second paragraph.", groups[2].Fragments[0].Text)
	assert.Equal(t, "Alpha", groups[3].Fragments[0].Text)
	assert.Equal(t, "Beta", groups[4].Fragments[0].Text)
}

func TestScanSkipsNonTranslatable(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	groups, err := doc.Scan()
	require.NoError(t, err)

	for _, g := range groups {
		for _, f := range g.Fragments {
			assert.NotContains(t, f.Text, "not text")
			assert.NotContains(t, f.Text, "code stays")
		}
	}
}

func TestScanIdempotent(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	first, err := doc.Scan()
	require.NoError(t, err)
	second, err := doc.Scan()
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, len(first[i].Fragments), len(second[i].Fragments))
		for j := range first[i].Fragments {
			// 重复扫描返回同一句柄
			assert.Equal(t, first[i].Fragments[j].Handle, second[i].Fragments[j].Handle)
		}
	}
}

func TestApplyAndRevert(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	groups, err := doc.Scan()
	require.NoError(t, err)

	h := groups[0].Fragments[0].Handle
	require.NoError(t, doc.Apply(h, "欢迎"))

	got, ok := doc.Text(h)
	require.True(t, ok)
	assert.Equal(t, "欢迎", got)

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "欢迎")

	require.NoError(t, doc.RevertAll())
	got, _ = doc.Text(h)
	assert.Equal(t, "Welcome", got)

	// RevertAll 幂等
	require.NoError(t, doc.RevertAll())
	got, _ = doc.Text(h)
	assert.Equal(t, "Welcome", got)
}

func TestApplyUnknownHandle(t *testing.T) {
	doc, err := ParseHTML(strings.NewReader("<p>hi</p>"))
	require.NoError(t, err)

	assert.Error(t, doc.Apply(Handle("missing"), "x"))
}

func TestGroupCharCount(t *testing.T) {
	g := Group{Fragments: []Fragment{
		{Handle: "a", Text: "abc"},
		{Handle: "b", Text: "de"},
	}}
	assert.Equal(t, 5, g.CharCount())
}
