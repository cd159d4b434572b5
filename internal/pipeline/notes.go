package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"lexipipe/internal/llm"
	"lexipipe/internal/model"
)

// NotesOptions controls one vocabulary-notes session
type NotesOptions struct {
	ArticleID string

	// ExtraLanguage adds translations into this language to every note
	ExtraLanguage string

	// AutoSave skips the save confirmation prompt
	AutoSave bool
}

// NotesResult is the outcome of a vocabulary-notes session
type NotesResult struct {
	Notes []model.TermNote
	Saved bool
}

// RunNotes asks for terms one at a time, explains each against the article
// text, and appends the formatted notes to the article page.
func (p *Pipeline) RunNotes(ctx context.Context, opts NotesOptions, in io.Reader, out io.Writer) (*NotesResult, error) {
	if opts.ArticleID == "" {
		return nil, fmt.Errorf("article ID is required")
	}
	if err := p.requireProvider(); err != nil {
		return nil, err
	}
	reader := bufio.NewScanner(in)

	title, body, err := p.client.GetArticleBody(ctx, opts.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	fmt.Fprintf(out, "Article: %s\n", title)
	fmt.Fprintln(out, "Enter terms to explain, one per line. Empty line finishes.")

	var notes []model.TermNote
	for {
		fmt.Fprint(out, "term> ")
		term := strings.TrimSpace(readLine(reader))
		if term == "" {
			break
		}
		note, err := p.provider.ExplainTerm(ctx, llm.ExplainRequest{
			Term:          term,
			ArticleText:   body,
			ExtraLanguage: opts.ExtraLanguage,
		})
		if err != nil {
			warnColor.Fprintf(out, "  warn: explain %q: %v\n", term, err)
			continue
		}
		fmt.Fprintf(out, "  %s: %s\n", note.Term, note.Meaning)
		notes = append(notes, *note)
	}

	result := &NotesResult{Notes: notes}
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes collected")
		return result, nil
	}

	formatted := FormatNotes(notes, opts.ExtraLanguage)
	fmt.Fprintf(out, "\n%s\n", formatted)

	if !opts.AutoSave {
		fmt.Fprint(out, "Save these notes to the article? [Y/n]: ")
		answer := strings.ToLower(strings.TrimSpace(readLine(reader)))
		if answer == "n" || answer == "no" {
			fmt.Fprintln(out, "Notes discarded")
			return result, nil
		}
	}

	if err := p.client.AppendVocabNotes(ctx, opts.ArticleID, formatted); err != nil {
		return result, fmt.Errorf("save notes: %w", err)
	}
	result.Saved = true
	fmt.Fprintf(out, "Saved %d note(s)\n", len(notes))
	return result, nil
}

// FormatNotes renders term notes as a markdown list. When extraLanguage is
// set, the bilingual fields are folded into the term line and a translation
// sub-line.
func FormatNotes(notes []model.TermNote, extraLanguage string) string {
	label := strings.TrimSpace(extraLanguage)
	var lines []string
	for _, n := range notes {
		head := "- **" + n.Term + "**"
		if label != "" && n.TermLocal != "" {
			head += " (" + label + ": " + n.TermLocal + ")"
		}
		head += ": " + n.Meaning
		lines = append(lines, head)
		if label != "" && n.MeaningLocal != "" {
			lines = append(lines, "  - "+label+": "+n.MeaningLocal)
		}
		if n.Context != "" {
			lines = append(lines, "  - Context: "+n.Context)
		}
		if n.Tip != "" {
			lines = append(lines, "  - Tip: "+n.Tip)
		}
	}
	return strings.Join(lines, "\n")
}
