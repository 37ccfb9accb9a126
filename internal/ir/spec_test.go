package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"blank", "   ", []string{}},
		{"single", "render", []string{"render"}},
		{"ordered", "render,fake", []string{"render", "fake"}},
		{"whitespace", " render , fake ", []string{"render", "fake"}},
		{"empty segments", "render,,fake,", []string{"render", "fake"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.input))
		})
	}
}

func TestNormalizeListSequenceUnchanged(t *testing.T) {
	in := []string{"b", "a"}
	assert.Equal(t, in, NormalizeList(in))
	assert.Equal(t, []string{}, NormalizeList([]string{}))
	assert.Equal(t, []string{"x", "y"}, NormalizeList([]any{"x", 3, "y"}))
	assert.Equal(t, []string{"x", "y"}, NormalizeList("x,y"))
	assert.Equal(t, []string{}, NormalizeList(42))
	assert.Equal(t, []string{}, NormalizeList(nil))
}

func TestActionSpecHelpers(t *testing.T) {
	var s ActionSpec
	s = s.Set("Content", []string{"render"})
	s = s.Set("Other", []string{"a", "b"})
	s = s.Set("Content", []string{"render", "fake"})

	assert.Equal(t, []string{"Content", "Other"}, s.Controllers())
	assert.Equal(t, 4, s.Count())

	actions, ok := s.Lookup("Content")
	assert.True(t, ok)
	assert.Equal(t, []string{"render", "fake"}, actions)

	_, ok = s.Lookup("Missing")
	assert.False(t, ok)
}

func TestExclusionAndSubActionLookups(t *testing.T) {
	excl := ExclusionSpec{"Content": {"fake"}}
	assert.True(t, excl.Excludes("Content", "fake"))
	assert.False(t, excl.Excludes("Content", "render"))
	assert.False(t, excl.Excludes("Other", "fake"))

	var nilSub SubActionSpec
	assert.Nil(t, nilSub.For("Content", "fake"))

	sub := SubActionSpec{"Content": {"fake": {"render", "list"}}}
	assert.Equal(t, []string{"render", "list"}, sub.For("Content", "fake"))
	assert.Nil(t, sub.For("Content", "render"))
}

func TestNamingConfigDefaults(t *testing.T) {
	n := NamingConfig{}
	assert.False(t, n.LanguageLabelsEnabled())
	assert.Equal(t, ";", n.EffectiveSeparator())

	n.LocalLanguageFileRelativePath = "/Resources/Private/Language/locallang.xlf"
	assert.True(t, n.LanguageLabelsEnabled())

	n.DisableLocalLanguageLabels = true
	assert.False(t, n.LanguageLabelsEnabled())
}

func TestRequiresArgument(t *testing.T) {
	tests := []struct {
		name   string
		params []ActionParam
		want   bool
	}{
		{"no params", nil, false},
		{"all defaulted", []ActionParam{{Name: "a", HasDefault: true}}, false},
		{"one required", []ActionParam{{Name: "a", HasDefault: true}, {Name: "b"}}, true},
		{"nullable without default", []ActionParam{{Name: "a", Nullable: true}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActionDef{Name: "x", Params: tt.params}.RequiresArgument())
		})
	}
}
