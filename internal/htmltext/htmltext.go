// Package htmltext renders the HTML summary as readable plain text for
// the clipboard, or as markdown for the terminal renderer.
package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]+`)
)

// markdownEscaper keeps literal text from the model or the answers from
// turning into markdown syntax.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "#", `\#`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "|", `\|`,
	"~", `\~`, "-", `\-`, "+", `\+`, "!", `\!`,
)

// Bullet prefixes list items.
const Bullet = "• "

// PlainText converts an HTML fragment into plain text: headings and
// paragraphs become blocks separated by blank lines, list items become
// bullets, inline markup is dropped. Incomplete fragments (a summary still
// streaming) are handled.
func PlainText(src string) string {
	return render(src, false)
}

// Markdown converts an HTML fragment into markdown: headings keep their
// level, list items become "- " entries, strong and em become ** and _.
func Markdown(src string) string {
	return render(src, true)
}

func render(src string, markdown bool) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		// The parser only fails on reader errors; keep the raw text.
		return strings.TrimSpace(src)
	}

	var sb strings.Builder
	extractText(doc, &sb, markdown, 0)
	return clean(sb.String())
}

func extractText(n *html.Node, sb *strings.Builder, markdown bool, depth int) {
	if depth > 64 {
		return
	}

	switch n.Type {
	case html.TextNode:
		text := collapseSpace(n.Data)
		if markdown {
			text = markdownEscaper.Replace(text)
		}
		sb.WriteString(text)
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteString("\n\n")
			if markdown {
				sb.WriteString(strings.Repeat("#", int(n.Data[1]-'0')) + " ")
			}
		case "p", "div", "ul", "ol":
			sb.WriteString("\n\n")
		case "br":
			sb.WriteString("\n")
		case "li":
			sb.WriteString("\n")
			if markdown {
				sb.WriteString("- ")
			} else {
				sb.WriteString(Bullet)
			}
		case "strong", "b":
			if markdown {
				sb.WriteString("**")
			}
		case "em", "i":
			if markdown {
				sb.WriteString("_")
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb, markdown, depth+1)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6", "p", "div", "ul", "ol":
			sb.WriteString("\n\n")
		case "strong", "b":
			if markdown {
				sb.WriteString("**")
			}
		case "em", "i":
			if markdown {
				sb.WriteString("_")
			}
		}
	}
}

// collapseSpace folds whitespace runs (including newlines from the model's
// formatting) into single spaces, keeping one at either edge.
func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	words := strings.FieldsFunc(s, isSpace)
	if len(words) == 0 {
		return " "
	}
	var b strings.Builder
	if isSpace(rune(s[0])) {
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(words, " "))
	if isSpace(rune(s[len(s)-1])) {
		b.WriteByte(' ')
	}
	return b.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func clean(s string) string {
	s = multiSpacePattern.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
