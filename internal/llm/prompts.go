package llm

import (
	"fmt"
	"strings"
)

func rewritePrompt(text, level string) string {
	return "You are an expert editor for graded readers.\n" +
		"Rewrite the article for CEFR " + level + " English.\n" +
		"Constraints:\n" +
		"- Keep facts accurate but make it simpler.\n" +
		"- Short sentences, active voice, common vocabulary.\n" +
		"- Keep the body around 1,500-1,800 characters so it fits in Notion.\n" +
		"- Include a brief glossary of key terms (English only).\n" +
		"Return ONLY valid JSON with keys:\n" +
		"  \"body\": simplified article (~300-600 words),\n" +
		"  \"glossary\": array of { \"term\": \"...\", \"definition\": \"...\" }.\n\n" +
		"[ARTICLE]\n" + text
}

func mineTermsPrompt(text string, limit int) string {
	return "You are a terminology miner.\n" +
		"Read the article below and list domain-specific or specialized terms that general learners might not know.\n" +
		"Return ONLY valid JSON with the schema: {\"terms\": [\"word\", ...]}.\n" +
		fmt.Sprintf("Limit to at most %d single words or short phrases.\n", limit) +
		"Lowercase the terms, remove duplicates, and include only alphabetic tokens.\n\n" +
		"[ARTICLE]\n" + text
}

func correctionPrompt(req CorrectionRequest) string {
	return fmt.Sprintf(`You are an English writing coach.
The learner wrote one sentence using this pattern:

Pattern: %q
Topic: %q
Keywords to prefer: %s

Task:
1) Correct the sentence for grammar and naturalness (aim CEFR B2 clarity but keep it simple).
2) Keep the meaning and the chosen pattern if possible.
3) Return JSON with keys: draft, corrected, feedback. 'draft' must echo the original input.

Learner sentence:
%s`, req.Pattern, req.Topic, strings.Join(req.Keywords, ", "), req.Sentence)
}

func explainPrompt(req ExplainRequest) string {
	excerpt := req.ArticleText
	if len(excerpt) > 2000 {
		excerpt = excerpt[:2000]
	}

	bilingual := ""
	if req.ExtraLanguage != "" {
		bilingual = fmt.Sprintf(`Additionally, include translations into %s:
- "term_local": the term translated or the closest common %s equivalent (one or two words)
- "meaning_local": one sentence definition translated into %s
`, req.ExtraLanguage, req.ExtraLanguage, req.ExtraLanguage)
	}

	return fmt.Sprintf(`You are a vocabulary tutor for intermediate English learners.
Article excerpt:
%s

Explain the term below in simple English:
TERM: %s

Return ONLY valid JSON with keys:
- "term": lowercase term string
- "meaning": one sentence definition (CEFR B1)
- "context": short phrase showing how it appears in context
- "tip": brief memory tip or synonym
%s`, excerpt, req.Term, bilingual)
}
