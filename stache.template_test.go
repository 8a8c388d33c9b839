package stache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTemplate(t *testing.T, source string) *Template {
	t.Helper()
	tmpl, err := MustNew().Parse(source)
	require.NoError(t, err)
	return tmpl
}

func TestSectionLocation_Missing(t *testing.T) {
	tmpl := parseTemplate(t, "\n    {{#section}}some text{{/section}}\n    ")

	_, _, ok := tmpl.SectionLocation("other")
	assert.False(t, ok)
}

func TestSectionLocation_MissingInner(t *testing.T) {
	tmpl := parseTemplate(t, "\n    {{#section}}{{#sub}}some text{{/sub}}{{/section}}\n    ")

	_, _, ok := tmpl.SectionLocation("section.other")
	assert.False(t, ok)
}

func TestSectionLocation_Inline(t *testing.T) {
	source := "\n    {{#section}}some text{{/section}}\n    "
	tmpl := parseTemplate(t, source)

	start, end, ok := tmpl.SectionLocation("section")
	require.True(t, ok)
	assert.Equal(t, "some text", source[start:end])
}

func TestSectionLocation_InlineSub(t *testing.T) {
	source := "\n    {{#section}}{{#sub}}some text{{/sub}}{{/section}}\n    "
	tmpl := parseTemplate(t, source)

	start, end, ok := tmpl.SectionLocation("section.sub")
	require.True(t, ok)
	assert.Equal(t, "some text", source[start:end])
}

func TestSectionLocation_SecondSub(t *testing.T) {
	source := "\n    {{#section}}{{#sub1}}text1{{/sub1}}{{#sub2}}text2{{/sub2}}{{/section}}\n    "
	tmpl := parseTemplate(t, source)

	start, end, ok := tmpl.SectionLocation("section.sub2")
	require.True(t, ok)
	assert.Equal(t, "text2", source[start:end])
}

func TestSectionLocation_StandaloneTagTrimmed(t *testing.T) {
	source := "\n    {{#section}}  \ntext\n    {{/section}}\n    "
	tmpl := parseTemplate(t, source)

	start, end, ok := tmpl.SectionLocation("section")
	require.True(t, ok)
	assert.Equal(t, "text\n", source[start:end])
}

func TestSectionLocation_InnerSectionKeptVerbatim(t *testing.T) {
	source := "\n    {{#section}}  {{#sub}}  \ntext\n    {{/sub}}  {{/section}}\n    "
	tmpl := parseTemplate(t, source)

	start, end, ok := tmpl.SectionLocation("section")
	require.True(t, ok)
	assert.Equal(t, "{{#sub}}  \ntext\n    {{/sub}}", source[start:end])
}

func TestSectionLocation_DottedSectionNames(t *testing.T) {
	source := "\n    {{#section}}{{#sub.x}}{{#y}}some text{{/y}}{{/sub.x}}{{/section}}\n    "
	tmpl := parseTemplate(t, source)

	start, end, ok := tmpl.SectionLocation("section.sub.x.y")
	require.True(t, ok)
	assert.Equal(t, "some text", source[start:end])
}

func TestTemplate_Source(t *testing.T) {
	tmpl := parseTemplate(t, "{{a}}")
	assert.Equal(t, "{{a}}", tmpl.Source())
}

func TestTemplate_RenderReusable(t *testing.T) {
	tmpl := parseTemplate(t, "Hello, {{name}}!")

	out, err := tmpl.Render(FromGo(map[string]any{"name": "one"}))
	require.NoError(t, err)
	assert.Equal(t, "Hello, one!", out)

	out, err = tmpl.Render(FromGo(map[string]any{"name": "two"}))
	require.NoError(t, err)
	assert.Equal(t, "Hello, two!", out)
}

func TestTemplate_NilDataRendersEmptyLookups(t *testing.T) {
	tmpl := parseTemplate(t, "[{{x}}]")
	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
