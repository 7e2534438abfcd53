package translator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributeReplyEvenSplit(t *testing.T) {
	reply := "<response>First sentence. Second sentence. Third sentence.</response>"
	parts := distributeReply(reply, 3)
	require.Len(t, parts, 3)
	for i, p := range parts {
		assert.NotEmpty(t, p, "part %d", i)
	}
	joined := strings.Join(parts, " ")
	assert.Contains(t, joined, "First sentence")
	assert.Contains(t, joined, "Third sentence")
}

func TestDistributeReplyPrefersSentenceBoundary(t *testing.T) {
	parts := distributeReply("Alpha beta. Gamma delta.", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "Alpha beta.", parts[0])
	assert.Equal(t, "Gamma delta.", parts[1])
}

func TestDistributeReplyPrefersNewline(t *testing.T) {
	parts := distributeReply("line one\nline two", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "line one", parts[0])
	assert.Equal(t, "line two", parts[1])
}

func TestDistributeReplyFewerRunesThanSlots(t *testing.T) {
	parts := distributeReply("ab", 5)
	require.Len(t, parts, 5)
	var nonEmpty int
	for _, p := range parts {
		if p != "" {
			nonEmpty++
		}
	}
	assert.GreaterOrEqual(t, nonEmpty, 1)
}

func TestDistributeReplyEmpty(t *testing.T) {
	parts := distributeReply("<response></response>", 3)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.Empty(t, p)
	}
}

func TestDistributeReplyStripsProtocolTags(t *testing.T) {
	parts := distributeReply("<response><item><translated>你好世界</translated></item></response>", 1)
	require.Len(t, parts, 1)
	assert.Equal(t, "你好世界", parts[0])
}

func TestDistributeReplyZeroSlots(t *testing.T) {
	assert.Empty(t, distributeReply("anything", 0))
}

func TestSplitChunksShortTextSingleChunk(t *testing.T) {
	chunks := SplitChunks("short", 100)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestSplitChunksAtSoftBoundary(t *testing.T) {
	text := "One sentence here. Another sentence there. And one more."
	chunks := SplitChunks(text, 25)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 25)
	}
}

func TestSplitChunksCJK(t *testing.T) {
	text := strings.Repeat("这是一句话。", 10)
	chunks := SplitChunks(text, 20)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, ""))
}
