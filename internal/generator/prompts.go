package generator

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

const outlineSystemPrompt = `You are a startup pitch deck expert. Create a compelling pitch deck outline for a startup about the given topic.
Return a JSON object with a "slides" property containing an array of 6-10 slides.

For each slide object in the array, specify:
- title: string (The headline of the slide)
- type: string (Must be exactly one of: 'title', 'bullets', 'image_left', 'image_right', 'chart')
- instructions: string (Brief instructions for the content writer about what specific details to include)
`

const singleSlideSystemPrompt = `You are a pitch deck expert. Create a single slide outline about the requested topic.
Return a JSON object with:
- title: string
- type: string (One of: 'title', 'bullets', 'image_left', 'image_right', 'chart')
- instructions: string
`

const contentSystemPrompt = `You are a startup pitch deck writer. Write content for a pitch deck slide based on the topic and instructions.
Return a JSON object with exactly these keys:
- content: string (The main text content. For 'bullets', use a markdown list. For 'chart', describe the data trend in 1 sentence. For images, write a descriptive paragraph.)
- notes: string (Speaker notes for the presenter, 2-3 sentences)
`

const contentUserPromptTemplate = `
Startup Topic: "{{ .Topic }}"
Slide Title: "{{ .Title }}"
Slide Type: "{{ .Type }}"
Instructions: "{{ .Instructions }}"
`

const classifySystemPromptTemplate = `You are an intelligent assistant for a presentation builder app.
Analyze the user's request and the current deck structure to determine the intended action.

Current Deck:
{{ .SlidesContext }}

Return a JSON object with a "type" and the necessary parameters.

Possible Types:
1. "CREATE_DECK": User wants to start over or build a new deck. Param: "topic".
2. "ADD_SLIDE": User wants to add a new slide. Params: "topic" (what the slide is about), "position" (optional 1-based index to insert at, default to after last slide).
3. "REMOVE_SLIDE": User wants to delete one or more slides. Param: "indices" (array of 1-based integers).
4. "REORDER_SLIDE": User wants to move a slide. Params: "from" (1-based index), "to" (1-based index).
5. "UPDATE_SLIDE": User wants to change the design, layout, or content of a specific slide. Params: "index" (1-based), "instructions" (what to change, e.g. "make it a chart", "rewrite about X").
6. "CHAT": User is asking a general question or the request is unclear/conversational. Param: "response" (a helpful text reply).

Examples:
- "Add a slide about market size" -> {"type": "ADD_SLIDE", "topic": "market size"}
- "Remove slide 3" -> {"type": "REMOVE_SLIDE", "indices": [3]}
- "Move slide 2 to the end" -> {"type": "REORDER_SLIDE", "from": 2, "to": {{ .SlideCount }}}
- "Change slide 4 to a chart" -> {"type": "UPDATE_SLIDE", "index": 4, "instructions": "Change layout to chart"}
- "What is a pitch deck?" -> {"type": "CHAT", "response": "A pitch deck is..."}
`

var (
	contentUserPrompt    = template.Must(template.New("content").Funcs(sprig.TxtFuncMap()).Parse(contentUserPromptTemplate))
	classifySystemPrompt = template.Must(template.New("classify").Funcs(sprig.TxtFuncMap()).Parse(classifySystemPromptTemplate))
)

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, data); err != nil {
		return "", errors.Wrap(err, "rendering prompt template")
	}
	return buffer.String(), nil
}
