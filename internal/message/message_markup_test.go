package message

import (
	"testing"
)

func TestRender(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"escape", `a < b & "c"`, "a &lt; b &amp; &#34;c&#34;"},
		{"bold", "Deadline: *Fri 17:00 KST*", "Deadline: <strong>Fri 17:00 KST</strong>"},
		{"italic", "_soft_ text", "<em>soft</em> text"},
		{"strike", "~old~ new", "<del>old</del> new"},
		{"code", "run `make test`", "run <code>make test</code>"},
		{"newline", "a\nb\r\nc", "a<br>b<br>c"},
		{"known emoji", ":memo: note", "📝 note"},
		{"unknown emoji", ":not_an_emoji: note", ":not_an_emoji: note"},
		{"clock is not emoji", "17:00 KST", "17:00 KST"},
		{
			"labeled link",
			"<https://example.com/a|open>",
			`<a href="https://example.com/a" rel="noopener noreferrer">open</a>`,
		},
		{
			"bare link",
			"<https://example.com>",
			`<a href="https://example.com" rel="noopener noreferrer">https://example.com</a>`,
		},
		{
			"bold inside link label",
			"<https://example.com|*thread*>",
			`<a href="https://example.com" rel="noopener noreferrer"><strong>thread</strong></a>`,
		},
		{
			"strike markers in url",
			"<https://example.com/~alice/~x|home>",
			`<a href="https://example.com/~alice/~x" rel="noopener noreferrer">home</a>`,
		},
		{
			"italic markers in url",
			"<https://example.com/_next_/a|docs>",
			`<a href="https://example.com/_next_/a" rel="noopener noreferrer">docs</a>`,
		},
		{
			"emoji code in url",
			"<https://example.com/:tada:/x|party>",
			`<a href="https://example.com/:tada:/x" rel="noopener noreferrer">party</a>`,
		},
		{
			"bare url keeps markers",
			"<https://example.com/*a*/_b_>",
			`<a href="https://example.com/*a*/_b_" rel="noopener noreferrer">https://example.com/*a*/_b_</a>`,
		},
		{
			"emoji in label",
			"<https://example.com/:tada:|:tada: party>",
			`<a href="https://example.com/:tada:" rel="noopener noreferrer">🎉 party</a>`,
		},
		{
			"bold around link",
			"*<https://example.com|open>* now",
			`<strong><a href="https://example.com" rel="noopener noreferrer">open</a></strong> now`,
		},
		{"nul bytes are dropped", "a\x000\x00b", "a0b"},
		{"snake_case stays", "use snake_case_name here", "use snake_case_name here"},
		{"raw html is escaped", "<b>x</b>", "&lt;b&gt;x&lt;/b&gt;"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.in); got != tc.want {
				t.Fatalf("Render(%q)\n got  %q\n want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRenderHTMLMatchesRender(t *testing.T) {
	in := "*[2026-02-02 ~ 02-08] Weekly Output*\n:alarm_clock: <https://x/y|link>"
	if string(RenderHTML(in)) != Render(in) {
		t.Fatal("RenderHTML must wrap Render output")
	}
}
