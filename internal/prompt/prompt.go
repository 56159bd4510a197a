// Package prompt builds the model instructions for an Ikigai summary.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ashureev/ikigai/internal/domain"
)

// Prompt is the pair of texts sent to the model.
type Prompt struct {
	System string
	User   string
}

const systemInstruction = "Eres un coach de vida experto en la filosofía Ikigai. " +
	"Tu propósito es ayudar a los usuarios a encontrar su propósito de vida analizando sus propias reflexiones. " +
	"Sé empático, inspirador y constructivo. Basa tu análisis únicamente en las respuestas del usuario. " +
	"Formatea tu respuesta en HTML, usando encabezados (<h3>) para las secciones y párrafos (<p>) para el texto. " +
	"Utiliza <strong> para resaltar las ideas clave. No uses markdown."

// headings pairs each field with the label shown to the model.
var headings = []struct {
	field domain.Field
	label string
}{
	{domain.FieldPassion, "Mi Pasión (lo que amo):"},
	{domain.FieldVocation, "Mi Vocación (en lo que soy bueno):"},
	{domain.FieldMission, "Mi Misión (lo que el mundo necesita):"},
	{domain.FieldProfession, "Mi Profesión (por lo que me pueden pagar):"},
}

// Build embeds the answers verbatim into the summary request.
func Build(rec domain.AnswerRecord) Prompt {
	var sb strings.Builder
	sb.WriteString("Analiza las siguientes reflexiones de un usuario para ayudarle a descubrir su Ikigai. ")
	sb.WriteString("Sintetiza la información, encuentra patrones y conexiones entre las áreas, ")
	sb.WriteString("y ofrécele una perspectiva clara sobre cuál podría ser su propósito de vida.\n\n")

	for _, h := range headings {
		sb.WriteString(fmt.Sprintf("<h3>%s</h3>\n<p>%s</p>\n\n", h.label, rec.Get(h.field)))
	}

	sb.WriteString("Basado en esto, genera un resumen de mi posible Ikigai. ")
	sb.WriteString("Comienza con una sección titulada 'Síntesis de tu Ikigai' con un párrafo inspirador. ")
	sb.WriteString("Luego, crea una sección 'Puntos Clave de Conexión' con una lista de viñetas HTML (<ul><li>) ")
	sb.WriteString("que conecten mis pasiones, talentos y oportunidades. ")
	sb.WriteString("Finalmente, concluye con una sección 'Tu Ikigai Potencial' que resuma la idea central en una o dos frases potentes.")

	return Prompt{
		System: systemInstruction,
		User:   sb.String(),
	}
}
