// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/liquid"
	"carvel.dev/liquid/pkg/stdlib"
	"carvel.dev/liquid/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renderCase struct {
	tpl      string
	expected string
}

func testData() map[string]interface{} {
	return map[string]interface{}{
		"name":    "ann",
		"items":   []interface{}{"a", "b", "c"},
		"nums":    []interface{}{3, 1, 2},
		"empty":   []interface{}{},
		"flag":    false,
		"count":   7,
		"price":   2.5,
		"user":    map[string]interface{}{"name": "Bob", "tags": []interface{}{"x", "y"}},
		"people":  []interface{}{map[string]interface{}{"name": "Zed", "age": 30}, map[string]interface{}{"name": "Amy", "age": 25}, map[string]interface{}{"name": "Kim"}},
		"when":    time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
		"nothing": nil,
	}
}

func assertRenders(t *testing.T, cases []renderCase) {
	t.Helper()
	for _, tc := range cases {
		tpl, err := liquid.Compile(tc.tpl, stdlib.NewRegistry())
		require.NoError(t, err, tc.tpl)

		out, err := tpl.RenderGo(testData(), liquid.RenderOptions{})
		require.NoError(t, err, tc.tpl)
		assert.Equal(t, tc.expected, out, tc.tpl)
	}
}

func TestAssignAndCapture(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{% assign x = name | upcase %}{{ x }}`, "ANN"},
		{`{% assign x = 1 %}{% assign x = x | plus: 1 %}{{ x }}`, "2"},
		{`{% capture greeting %}Hi {{ name }}{% endcapture %}[{{ greeting }}]`, "[Hi ann]"},
		{`{% capture "quoted" %}q{% endcapture %}{{ quoted }}`, "q"},
		{`{% for i in (1..2) %}{% assign last = i %}{% endfor %}{{ last }}`, "2"},
	})
}

func TestConditionals(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{% if count > 5 %}big{% endif %}`, "big"},
		{`{% if count > 10 %}big{% elsif count > 5 %}mid{% else %}small{% endif %}`, "mid"},
		{`{% if flag %}y{% else %}n{% endif %}`, "n"},
		{`{% if nothing %}y{% else %}n{% endif %}`, "n"},
		{`{% if empty %}truthy{% endif %}`, "truthy"},
		{`{% if 0 %}truthy{% endif %}`, "truthy"},
		{`{% if items contains "b" and name == "ann" %}ok{% endif %}`, "ok"},
		{`{% if false or true and false %}y{% else %}n{% endif %}`, "n"},
		{`{% if true or false and false %}y{% else %}n{% endif %}`, "y"},
		{`{% if name == 1 %}y{% else %}n{% endif %}`, "n"},
		{`{% if "10" < 9 %}y{% else %}n{% endif %}`, "n"},
		{`{% unless flag %}shown{% endunless %}`, "shown"},
		{`{% unless count %}a{% elsif name %}b{% endunless %}`, "b"},
	})
}

func TestCase(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{% case name %}{% when "bob" %}B{% when "ann", "amy" %}A{% else %}?{% endcase %}`, "A"},
		{`{% case count %}{% when 1 or 7 %}hit{% endcase %}`, "hit"},
		{`{% case count %}{% when 1 %}one{% else %}other{% endcase %}`, "other"},
		{`{% case count %}{% when 7 %}first{% when 7 %}second{% endcase %}`, "first"},
	})
}

func TestFor(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{% for i in items %}{{ i }}{% endfor %}`, "abc"},
		{`{% for i in items reversed %}{{ i }}{% endfor %}`, "cba"},
		{`{% for i in items limit: 2 %}{{ i }}{% endfor %}`, "ab"},
		{`{% for i in items offset: 1 %}{{ i }}{% endfor %}`, "bc"},
		{`{% for i in items offset: 1 limit: 1 reversed %}{{ i }}{% endfor %}`, "b"},
		{`{% for i in (1..count) limit: 3 %}{{ i }}{% endfor %}`, "123"},
		{`{% for i in empty %}x{% else %}none{% endfor %}`, "none"},
		{`{% for i in nothing %}x{% else %}none{% endfor %}`, "none"},
		{`{% for i in items %}{{ forloop.index }}/{{ forloop.length }}{% unless forloop.last %},{% endunless %}{% endfor %}`, "1/3,2/3,3/3"},
		{`{% for i in (1..5) %}{% if i == 2 %}{% continue %}{% endif %}{% if i == 4 %}{% break %}{% endif %}{{ i }}{% endfor %}`, "13"},
		{`{% for a in (1..2) %}{% for b in (1..2) %}{{ forloop.parentloop.index }}{{ b }} {% endfor %}{% endfor %}`, "11 12 21 22 "},
		{`{% for pair in user %}{{ pair[0] }}={{ pair[1] | join: "+" }};{% endfor %}`, "name=Bob;tags=x+y;"},
		{`{% for i in items %}{{ i }}{% endfor %}{{ i }}`, "abc"},
	})
}

func TestMiscTags(t *testing.T) {
	assertRenders(t, []renderCase{
		{`a{% comment %}{{ ignored }}{% if %}{% endcomment %}b`, "ab"},
		{`{% raw %}{{ name }}{% endraw %}`, "{{ name }}"},
		{`a{% # an inline comment %}b`, "ab"},
		{`{% for i in (1..4) %}{% cycle "odd", "even" %} {% endfor %}`, "odd even odd even "},
		{`{% cycle "g": "a", "b" %}{% cycle "g": "a", "b" %}{% cycle "h": "a", "b" %}`, "aba"},
		{`{% increment n %}{% increment n %}{% decrement n %}{{ n }}`, "011"},
		{`{% decrement d %}{% decrement d %}`, "-1-2"},
		{`{% require_version "0.0.1" %}ok`, "ok"},
	})
}

func TestIfChanged(t *testing.T) {
	assertRenders(t, []renderCase{
		{
			"{% for a in (0..10) %}{% ifchanged %}\nHey! {% if a > 5 %}Numbers are now bigger than 5!{% endif %}{% endifchanged %}{% endfor %}",
			"\nHey! \nHey! Numbers are now bigger than 5!",
		},
	})
}

func TestStringFilters(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{{ "Hello" | upcase }} {{ "Hello" | downcase }} {{ "hello world" | capitalize }}`, "HELLO hello Hello world"},
		{`{{ name | append: "!" | prepend: "> " }}`, "> ann!"},
		{`[{{ "  x  " | strip }}][{{ "  x  " | lstrip }}][{{ "  x  " | rstrip }}]`, "[x][x  ][  x]"},
		{`{{ "a-b-c" | replace: "-", "+" }} {{ "a-b-c" | remove: "-" }} {{ "a-b" | replace: "-" }}`, "a+b+c abc ab"},
		{`{{ "a,b,,c,," | split: "," | join: "|" }}`, "a|b||c"},
		{`{{ "héllo" | size }} {{ items | size }} {{ nothing | size }}`, "5 3 0"},
		{`{{ "Ground control to Major Tom." | truncate: 20 }}`, "Ground control to..."},
		{`{{ "short" | truncate: 20 }} {{ "abcdef" | truncate: 4, "" }}`, "short abcd"},
		{`{{ "<a href='x'>&</a>" | escape }}`, "&lt;a href=&#39;x&#39;&gt;&amp;&lt;/a&gt;"},
	})
}

func TestMathFilters(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{{ count | plus: 1 }} {{ count | minus: 10 }} {{ count | times: 2 }}`, "8 -3 14"},
		{`{{ count | divided_by: 2 }} {{ count | divided_by: 2.0 }} {{ -7 | divided_by: 2 }}`, "3 3.5 -4"},
		{`{{ count | modulo: 3 }} {{ -7 | modulo: 3 }}`, "1 2"},
		{`{{ price | plus: 1 }} {{ "3" | plus: 1 }}`, "3.5 4"},
		{`{{ -4 | abs }} {{ -2.5 | abs }}`, "4 2.5"},
		{`{{ price | ceil }} {{ price | floor }} {{ 2.5 | round }} {{ 3.14159 | round: 2 }} {{ 5 | round }}`, "3 2 3 3.14 5"},
	})
}

func TestArrayFilters(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{{ items | join }} {{ items | join: ", " }}`, "a b c a, b, c"},
		{`{{ items | first }}{{ items | last }} {{ name | first }}{{ name | last }}`, "ac an"},
		{`{{ items | reverse | join: "" }}`, "cba"},
		{`{{ nums | sort | join: "" }}`, "123"},
		{`{{ people | sort: "age" | map: "name" | join: "," }}`, "Amy,Zed,Kim"},
		{`{{ "a,b,a,c,b" | split: "," | uniq | join: "" }}`, "abc"},
		{`{{ people | map: "age" | compact | join: "," }}`, "30,25"},
		{`{{ people | compact: "age" | size }}`, "2"},
		{`{{ items | concat: nums | join: "" }}`, "abc312"},
	})
}

func TestMiscFilters(t *testing.T) {
	assertRenders(t, []renderCase{
		{`{{ nothing | default: "x" }} {{ "" | default: "x" }} {{ empty | default: "x" }} {{ name | default: "x" }}`, "x x x ann"},
		{`{{ flag | default: "x" }} {{ flag | default: "x", allow_false: true }}`, "x false"},
		{`{{ when | date: "%Y-%m-%d %H:%M:%S" }}`, "2024-03-05 14:07:09"},
		{`{{ when | date: "%a %b %e, %y %I:%M %p %%" }}`, "Tue Mar  5, 24 02:07 PM %"},
		{`{{ "2024-03-05" | date: "%B %d %j" }}`, "March 05 065"},
		{`{{ 0 | date: "%F %T" }}`, "1970-01-01 00:00:00"},
		{`{{ when | date: "%-d/%-m %H:%M:%S.%L" }}`, "5/3 14:07:09.000"},
		{`{{ user | json }}`, `{"name":"Bob","tags":["x","y"]}`},
		{`{{ items | json: indent: 1 }}`, "[\n \"a\",\n \"b\",\n \"c\"\n]"},
		{`{{ user | toml }}`, "name = \"Bob\"\ntags = [\"x\", \"y\"]\n"},
	})
}

func TestDateNow(t *testing.T) {
	orig := stdlib.Now
	stdlib.Now = func() time.Time { return time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC) }
	defer func() { stdlib.Now = orig }()

	assertRenders(t, []renderCase{{`{{ "now" | date: "%Y" }}`, "2030"}})
}

func TestRenderErrors(t *testing.T) {
	cases := map[string]errs.RenderErrorKind{
		`{{ name | plus: 1 }}`:                      errs.FilterError,
		`{{ 1 | divided_by: 0 }}`:                   errs.FilterError,
		`{{ name | sort }}`:                         errs.FilterError,
		`{{ "x" | date: "%Y" }}`:                    errs.FilterError,
		`{{ items | toml }}`:                        errs.FilterError,
		`{{ user | json: indent: 9 }}`:              errs.FilterError,
		`{% for i in count %}{% endfor %}`:          errs.TypeError,
		`{% for i in items limit: "x" %}{% endfor %}`: errs.TypeError,
		`{% break %}`:                               errs.Internal,
	}
	for src, kind := range cases {
		tpl, err := liquid.Compile(src, stdlib.NewRegistry())
		require.NoError(t, err, src)

		_, err = tpl.RenderGo(testData(), liquid.RenderOptions{})
		var renderErr *errs.RenderError
		require.True(t, errors.As(err, &renderErr), src)
		assert.Equal(t, kind, renderErr.Kind, src)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		`{% assign = 1 %}`:                                 "Expected identifier, found '='",
		`{% assign x 1 %}`:                                 "Expected '=', found '1'",
		`{% if %}{% endif %}`:                              "Expected condition after 'if'",
		`{% if a %}{% else %}{% elsif b %}{% endif %}`:     "Unexpected 'elsif' after 'else' in 'if'",
		`{% for x items %}{% endfor %}`:                    "Expected 'in', found 'items'",
		`{% for x in items sideways %}{% endfor %}`:        "Unexpected 'sideways' in 'for' (expected 'limit:', 'offset:' or 'reversed')",
		`{% for x in items limit: 1 limit: 2 %}{% endfor %}`: "Option 'limit' given more than once",
		`{% for x in items %}{% else %}{% else %}{% endfor %}`: "Unexpected 'else' after 'else' in 'for'",
		`{% break now %}`:                                  "Unexpected 'now'",
		`{% raw x %}{% endraw %}`:                          "Unexpected 'x'",
		`{% require_version 1 %}`:                          "Expected version string, found '1'",
		`{% require_version "999.0" %}`:                    "Template requires engine version 999.0 or newer, but this is version 0.1.0",
		`{% increment %}`:                                  "Expected identifier, found end of arguments",
		`{% cycle %}`:                                      "Expected value, found end of arguments",
	}
	for src, msg := range cases {
		_, err := liquid.Compile(src, stdlib.NewRegistry())

		var compileErr *errs.CompileError
		require.True(t, errors.As(err, &compileErr), src)
		assert.Equal(t, errs.Syntax, compileErr.Kind, src)
		assert.Equal(t, msg, compileErr.Msg, src)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := stdlib.NewRegistry()
	err := stdlib.Register(reg)

	var dupErr *errs.DuplicateNameError
	require.True(t, errors.As(err, &dupErr))
}

func TestEveryFilterHasDescription(t *testing.T) {
	for _, filter := range stdlib.Filters() {
		refl := filter.Reflection()
		assert.NotEmpty(t, refl.Description, refl.Name)
		assert.Equal(t, strings.TrimSpace(refl.Name), refl.Name)
	}
	for _, tag := range stdlib.Tags() {
		assert.NotEmpty(t, tag.Reflection().Description, tag.Reflection().Name)
	}
}

func TestRenderDoesNotMutateData(t *testing.T) {
	data, err := value.NewGoValue(testData()).AsObject()
	require.NoError(t, err)

	tpl, err := liquid.Compile(`{% assign name = "changed" %}{{ name }}`, stdlib.NewRegistry())
	require.NoError(t, err)

	out, err := tpl.Render(data, liquid.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "changed", out)

	name, _ := data.Get("name")
	assert.Equal(t, "ann", name.Render())
}
