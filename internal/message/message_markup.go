package message

import (
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

// Slack mrkdwn 일부를 화면 표시용 HTML로 바꾸는 변환기입니다. (표시 전용, 발송 포맷 아님)
//
// 적용 순서가 결과를 결정하므로 파이프라인 순서를 바꾸지 마십시오.
// escape → emoji → link → bold → italic → strike → code → newline

type markupPass struct {
	name  string
	apply func(*rendering, string) string
}

var (
	emojiPattern     = regexp.MustCompile(`:([a-z0-9_+\-]+):`)
	linkPattern      = regexp.MustCompile(`&lt;((?:https?|mailto):[^|\s]+?)(?:\|(.+?))?&gt;`)
	anchorToken      = regexp.MustCompile("\x00([0-9]+)\x00")
	boldPattern      = regexp.MustCompile(`(^|[^\w*])\*([^*\n]+?)\*`)
	italicPattern    = regexp.MustCompile(`(^|[^\w_])_([^_\n]+?)_`)
	strikePattern    = regexp.MustCompile(`(^|[^\w~])~([^~\n]+?)~`)
	codePattern      = regexp.MustCompile("`([^`\n]+?)`")
	newlineCanonical = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\x00", "")
)

// anchor는 link 단계에서 떼어낸 링크입니다. 이후 단계는 href를 보지 못합니다.
type anchor struct {
	href  string
	label string
	bare  bool
}

// rendering은 한 번의 Render 호출 상태입니다.
type rendering struct {
	anchors []anchor
}

// emojiGlyphs는 지원하는 이모지 단축코드 표입니다. 표에 없는 코드는 :code: 그대로 둡니다.
var emojiGlyphs = map[string]string{
	"memo":             "📝",
	"alarm_clock":      "⏰",
	"white_check_mark": "✅",
	"tada":             "🎉",
	"rocket":           "🚀",
	"warning":          "⚠️",
	"fire":             "🔥",
	"+1":               "👍",
	"thumbsup":         "👍",
	"eyes":             "👀",
	"pray":             "🙏",
	"clap":             "👏",
	"calendar":         "📅",
	"bell":             "🔔",
	"heart":            "❤️",
	"smile":            "😄",
	"x":                "❌",
	"point_right":      "👉",
	"sparkles":         "✨",
	"bulb":             "💡",
	"pushpin":          "📌",
	"link":             "🔗",
}

var displayPipeline = []markupPass{
	{name: "escape", apply: escapeMarkup},
	{name: "emoji", apply: substituteEmoji},
	{name: "link", apply: extractLinks},
	{name: "bold", apply: wrapWith(boldPattern, "strong")},
	{name: "italic", apply: wrapWith(italicPattern, "em")},
	{name: "strike", apply: wrapWith(strikePattern, "del")},
	{name: "code", apply: wrapCode},
	{name: "newline", apply: func(_ *rendering, s string) string { return strings.ReplaceAll(s, "\n", "<br>") }},
}

// 링크 라벨에는 link 이후의 인라인 단계만 적용합니다. (라벨은 한 줄)
var labelPasses = displayPipeline[3:7]

// PipelineOrder는 변환 단계 이름을 적용 순서대로 반환합니다.
func PipelineOrder() []string {
	names := make([]string, len(displayPipeline))
	for i, p := range displayPipeline {
		names[i] = p.name
	}
	return names
}

// Render는 치환이 끝난 메시지를 표시용 HTML 문자열로 변환합니다.
func Render(text string) string {
	r := &rendering{}
	out := newlineCanonical.Replace(text)
	for _, p := range displayPipeline {
		out = p.apply(r, out)
	}
	return r.expandAnchors(out)
}

// RenderHTML은 html/template 뷰에 그대로 넣을 수 있는 값으로 반환합니다.
// Render가 먼저 원문을 이스케이프하므로 안전합니다.
func RenderHTML(text string) template.HTML {
	return template.HTML(Render(text))
}

func escapeMarkup(_ *rendering, s string) string {
	return html.EscapeString(s)
}

// substituteEmoji는 링크 URL을 건너뛰고 본문과 라벨에만 적용합니다.
func substituteEmoji(_ *rendering, s string) string {
	var b strings.Builder
	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(replaceEmoji(s[last:m[0]]))
		if m[4] < 0 {
			b.WriteString(s[m[0]:m[1]])
		} else {
			b.WriteString(s[m[0]:m[4]])
			b.WriteString(replaceEmoji(s[m[4]:m[5]]))
			b.WriteString(s[m[5]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(replaceEmoji(s[last:]))
	return b.String()
}

func replaceEmoji(s string) string {
	return emojiPattern.ReplaceAllStringFunc(s, func(m string) string {
		code := m[1 : len(m)-1]
		if glyph, ok := emojiGlyphs[code]; ok {
			return glyph
		}
		return m
	})
}

// extractLinks는 링크를 \x00n\x00 자리표시자로 바꿉니다. 입력의 \x00은 미리 제거됩니다.
func extractLinks(r *rendering, s string) string {
	return linkPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := linkPattern.FindStringSubmatch(m)
		a := anchor{href: sub[1], label: sub[2]}
		if a.label == "" {
			a.label, a.bare = sub[1], true
		}
		r.anchors = append(r.anchors, a)
		return "\x00" + strconv.Itoa(len(r.anchors)-1) + "\x00"
	})
}

func (r *rendering) expandAnchors(s string) string {
	if len(r.anchors) == 0 {
		return s
	}
	return anchorToken.ReplaceAllStringFunc(s, func(m string) string {
		i, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || i >= len(r.anchors) {
			return ""
		}
		a := r.anchors[i]
		label := a.label
		if !a.bare {
			for _, p := range labelPasses {
				label = p.apply(r, label)
			}
		}
		return `<a href="` + a.href + `" rel="noopener noreferrer">` + label + `</a>`
	})
}

func wrapWith(re *regexp.Regexp, tag string) func(*rendering, string) string {
	repl := "$1<" + tag + ">$2</" + tag + ">"
	return func(_ *rendering, s string) string {
		return re.ReplaceAllString(s, repl)
	}
}

func wrapCode(_ *rendering, s string) string {
	return codePattern.ReplaceAllString(s, "<code>$1</code>")
}
