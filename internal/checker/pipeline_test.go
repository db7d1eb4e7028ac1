package checker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvun/divvun-worker-grammar/internal/bundle"
	helpers "github.com/divvun/divvun-worker-grammar/internal/testutil/testutils"
)

func fixtureBundle(t *testing.T) *bundle.Bundle {
	t.Helper()
	path := helpers.WriteBundle(t, helpers.DefaultBundleFixture())
	b, err := bundle.Load(path)
	require.NoError(t, err)
	return b
}

func check(t *testing.T, text string, opts Options) Result {
	t.Helper()
	p := New(fixtureBundle(t), opts)
	result, err := p.Check(context.Background(), text)
	require.NoError(t, err)
	return result
}

func TestCheckEmptyText(t *testing.T) {
	result := check(t, "", Options{})
	assert.Empty(t, result.Errs)
	assert.NotNil(t, result.Errs, "errs must serialize as [], not null")
}

func TestCheckCleanText(t *testing.T) {
	result := check(t, "This sentence is fine.", Options{})
	assert.Empty(t, result.Errs)
}

func TestRuleMatchWithSuggestion(t *testing.T) {
	result := check(t, "well i agree", Options{})
	require.Len(t, result.Errs, 1)

	e := result.Errs[0]
	assert.Equal(t, "typo-lowercase-i", e.Code)
	assert.Equal(t, "Lowercase pronoun", e.Title)
	assert.Equal(t, []string{" I "}, e.Suggestions)
}

func TestDoubleWordDetector(t *testing.T) {
	result := check(t, "this is is wrong", Options{})
	require.Len(t, result.Errs, 1)

	e := result.Errs[0]
	assert.Equal(t, "double-word", e.Code)
	assert.Equal(t, "is is", e.Form)
	assert.Equal(t, []string{"is"}, e.Suggestions)
	assert.Equal(t, 5, e.Beg)
	assert.Equal(t, 10, e.End)
}

func TestDoubleWordCaseInsensitive(t *testing.T) {
	result := check(t, "The the cat", Options{})
	require.Len(t, result.Errs, 1)
	assert.Equal(t, "The the", result.Errs[0].Form)
}

func TestDoubleWordNotAcrossPunctuation(t *testing.T) {
	result := check(t, "yes, yes", Options{})
	assert.Empty(t, result.Errs)
}

func TestDoubleSpaceDetector(t *testing.T) {
	result := check(t, "too  wide", Options{})
	require.Len(t, result.Errs, 1)

	e := result.Errs[0]
	assert.Equal(t, "double-space", e.Code)
	assert.Equal(t, 3, e.Beg)
	assert.Equal(t, 5, e.End)
	assert.Equal(t, []string{" "}, e.Suggestions)
}

func TestIgnoreByCode(t *testing.T) {
	result := check(t, "too  wide", Options{Ignore: []string{"double-space"}})
	assert.Empty(t, result.Errs)
}

func TestIgnoreByTag(t *testing.T) {
	result := check(t, "well i agree", Options{Ignore: []string{"typo"}})
	assert.Empty(t, result.Errs)
}

func TestErrorsOrderedByOffset(t *testing.T) {
	result := check(t, "a  b b c c", Options{})
	require.True(t, len(result.Errs) >= 2)
	for i := 1; i < len(result.Errs); i++ {
		assert.LessOrEqual(t, result.Errs[i-1].Beg, result.Errs[i].Beg)
	}
}

func TestUTF16Offsets(t *testing.T) {
	// "ább bb" — á is 2 bytes but 1 UTF-16 code unit.
	result := check(t, "ább  x", Options{Encoding: EncodingUTF16})
	require.Len(t, result.Errs, 1)
	assert.Equal(t, 3, result.Errs[0].Beg)
	assert.Equal(t, 5, result.Errs[0].End)
}

func TestUTF8Offsets(t *testing.T) {
	result := check(t, "ább  x", Options{Encoding: EncodingUTF8})
	require.Len(t, result.Errs, 1)
	assert.Equal(t, 4, result.Errs[0].Beg)
	assert.Equal(t, 6, result.Errs[0].End)
}

func TestSurrogatePairOffsets(t *testing.T) {
	// 𝄞 (U+1D11E) is 4 bytes, 2 UTF-16 code units.
	result := check(t, "𝄞 a  b", Options{Encoding: EncodingUTF16})
	require.Len(t, result.Errs, 1)
	assert.Equal(t, 4, result.Errs[0].Beg)
	assert.Equal(t, 6, result.Errs[0].End)
}

func TestDescriptionFormSubstitution(t *testing.T) {
	result := check(t, "wait , no", Options{})
	require.Len(t, result.Errs, 1)
	assert.Equal(t, "punct-space-before", result.Errs[0].Code)
	assert.Contains(t, result.Errs[0].Description, `" ,"`)
}

func TestLocalizedMessages(t *testing.T) {
	result := check(t, "go go", Options{Locales: []string{"se"}})
	require.Len(t, result.Errs, 1)
	assert.Equal(t, "Geardduhuvvon sátni", result.Errs[0].Title)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(fixtureBundle(t), Options{})
	_, err := p.Check(ctx, "some text")
	assert.Error(t, err)
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF16, enc)

	enc, err = ParseEncoding("utf-8")
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF8, enc)

	_, err = ParseEncoding("latin-1")
	assert.Error(t, err)
}
