package phrases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDictionary_NormalizesAndDedupes(t *testing.T) {
	d, err := NewDictionary(" 你好 ", "", "谢谢", "你好", "café")
	require.NoError(t, err)

	assert.Equal(t, []string{"你好", "谢谢", "café"}, d.Phrases())
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"c", "a", "f", "é"}, d.Entry(2).Chars)
	assert.Equal(t, 8, d.TotalChars())
}

func TestNewDictionary_Empty(t *testing.T) {
	_, err := NewDictionary()
	assert.ErrorIs(t, err, ErrEmptyDictionary)

	_, err = NewDictionary("  ", "\n")
	assert.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestGraphemes_KeepsClustersWhole(t *testing.T) {
	assert.Equal(t, []string{"欢", "迎", "光", "临"}, Graphemes("欢迎光临"))
	// flag emoji is two runes but one cluster
	assert.Equal(t, []string{"中", "🇨🇳"}, Graphemes("中🇨🇳"))
	assert.Nil(t, Graphemes(""))
}

func TestCodePoint(t *testing.T) {
	assert.Equal(t, "4F60", CodePoint("你"))
	assert.Equal(t, "0041", CodePoint("A"))
	assert.Equal(t, "1F600", CodePoint("😀"))
	assert.Equal(t, "", CodePoint(""))
}

func TestParseLibrary(t *testing.T) {
	raw := []byte(`
sets:
  - id: 2
    name: two
    list:
      - phrase: 请问
  - id: 1
    name: one
    list:
      - phrase: 你好
        pinyin: nǐ hǎo
        vietnamese: Xin chào
`)
	sets, byID, err := parseLibrary(raw)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, 1, sets[0].ID)
	assert.Equal(t, 0, byID[1])
	assert.Equal(t, 1, byID[2])
	assert.Equal(t, Phrase{Phrase: "你好", Pinyin: "nǐ hǎo", Vietnamese: "Xin chào"}, sets[0].List[0])
}

func TestParseLibrary_Rejects(t *testing.T) {
	cases := map[string]string{
		"no sets":      `sets: []`,
		"bad id":       "sets:\n  - id: 0\n    name: x\n    list:\n      - phrase: 你好\n",
		"duplicate id": "sets:\n  - id: 1\n    list:\n      - phrase: 你好\n  - id: 1\n    list:\n      - phrase: 谢谢\n",
		"empty set":    "sets:\n  - id: 1\n    name: x\n    list: []\n",
		"bad yaml":     "sets: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseLibrary([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestInit_EmbeddedLibrary(t *testing.T) {
	t.Setenv("PHRASES_FILE", "")
	require.NoError(t, Init())

	s, err := Get(1)
	require.NoError(t, err)
	assert.Equal(t, "问候", s.Name)
	assert.Contains(t, s.Texts(), "你好")

	_, err = Get(9999)
	assert.ErrorIs(t, err, ErrSetNotFound)

	first, ok := At(0)
	require.True(t, ok)
	assert.Equal(t, 1, first.ID)
	_, ok = At(-1)
	assert.False(t, ok)

	setCount, phraseCount := Stats()
	assert.Equal(t, len(Sets()), setCount)
	assert.Positive(t, phraseCount)
}

func TestSets_ReturnsCopies(t *testing.T) {
	t.Setenv("PHRASES_FILE", "")
	require.NoError(t, Init())

	all := Sets()
	require.NotEmpty(t, all)
	all[0].Name = "changed"
	all[0].List[0].Phrase = "changed"

	first, err := Get(1)
	require.NoError(t, err)
	first.List[0].Pinyin = "changed"

	again := Sets()
	assert.Equal(t, "问候", again[0].Name)
	assert.Equal(t, "你好", again[0].List[0].Phrase)
	assert.Equal(t, "nǐ hǎo", again[0].List[0].Pinyin)
}
