package htmltext

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "headings and paragraphs",
			in:   "<h3>Síntesis de tu Ikigai</h3><p>Eres <strong>creativo</strong>.</p>",
			want: "Síntesis de tu Ikigai\n\nEres creativo.",
		},
		{
			name: "list items",
			in:   "<h3>Puntos</h3><ul><li>Uno</li><li>Dos</li></ul>",
			want: "Puntos\n\n• Uno\n• Dos",
		},
		{
			name: "model whitespace",
			in:   "<p>\n  Hola\n  mundo  </p>\n\n\n<p>Adiós</p>",
			want: "Hola mundo\n\nAdiós",
		},
		{
			name: "space between inline elements",
			in:   "<p><strong>a</strong> <em>b</em></p>",
			want: "a b",
		},
		{
			name: "unterminated fragment while streaming",
			in:   "<h3>Tu Ikigai</h3><p>Ayudar a otr",
			want: "Tu Ikigai\n\nAyudar a otr",
		},
		{
			name: "plain text",
			in:   "sin etiquetas",
			want: "sin etiquetas",
		},
		{
			name: "entities",
			in:   "<p>Arte &amp; ciencia</p>",
			want: "Arte & ciencia",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	in := "<h3>Síntesis de tu Ikigai</h3><p>Eres <strong>creativo</strong> y <em>curioso</em>.</p>" +
		"<h3>Puntos Clave de Conexión</h3><ul><li>Uno</li><li>Dos</li></ul>"
	want := "### Síntesis de tu Ikigai\n\nEres **creativo** y _curioso_.\n\n" +
		"### Puntos Clave de Conexión\n\n- Uno\n- Dos"

	if got := Markdown(in); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestMarkdownEscapesLiteralSyntax(t *testing.T) {
	in := "<p>5 * 3 = 15, snake_case y #hashtag</p><p><strong>ok</strong></p>"
	want := `5 \* 3 = 15, snake\_case y \#hashtag` + "\n\n**ok**"

	if got := Markdown(in); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
	if got := PlainText(in); got != "5 * 3 = 15, snake_case y #hashtag\n\nok" {
		t.Errorf("PlainText() = %q", got)
	}
}
