package enrich

import "fmt"

const promptTemplate = `
You are an analyst assistant. Extract structured company info from website text.
Return ONLY valid JSON with exactly these keys:
{
  "summary": string (1-2 sentences),
  "whatTheyDo": string[] (3-6 bullets),
  "keywords": string[] (5-10 keywords),
  "derivedSignals": string[] (2-4 inferred signals)
}
Website text:
"""%s"""
`

// BuildPrompt embeds extracted page text into the extraction instruction.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
