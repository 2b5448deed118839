package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"ragqa/internal/controller"
	"ragqa/internal/domain"
)

const (
	placeholderIndexed    = "Type a question about the uploaded document..."
	placeholderNoDocument = "Upload a document first..."
	noValue               = "—"
)

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	st := m.ctrl.State()

	header := titleStyle.Render("RAG QA — Upload a document & ask questions")
	doc := renderDocumentLine(st, m.ctrl.Status())
	actions := mutedStyle.Render(fmt.Sprintf("[ctrl+o] Select file   [ctrl+u] %s   [enter] %s",
		uploadLabel(st), askLabel(st)))

	var alert string
	if msg, ok := st.Interaction.Error.Get(); ok {
		alert = errorStyle.Render(msg)
	} else if m.notice != "" {
		alert = noticeStyle.Render(m.notice)
	}

	var body string
	if m.mode == modePicker {
		body = resultBoxStyle.Render(m.picker.View())
	} else {
		body = resultBoxStyle.Render(m.viewport.View())
	}
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.backend)

	return strings.Join([]string{header, doc, actions, alert, body, input, status, m.help.View(m.keys)}, "\n")
}

func renderDocumentLine(st controller.State, status string) string {
	selected := noValue
	if st.DisplayName != "" {
		selected = st.DisplayName
	}
	pages := noValue
	if n, ok := st.Document.PageCount.Get(); ok {
		pages = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("Selected: %s   Status: %s   Pages: %s",
		labelStyle.Render(selected), labelStyle.Render(status), labelStyle.Render(pages))
}

func uploadLabel(st controller.State) string {
	switch {
	case st.Interaction.IsUploading:
		return "Uploading..."
	case st.Document.Indexed():
		return "Re-upload"
	default:
		return "Upload"
	}
}

func askLabel(st controller.State) string {
	if st.Interaction.IsAnswering {
		return "Thinking..."
	}
	return "Ask"
}

func renderAnswerPane(st controller.State, spin string) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Answer"))
	b.WriteString("\n")
	switch {
	case st.Interaction.IsAnswering:
		b.WriteString(spin + " Waiting for model...")
	case st.Interaction.Answer.IsPresent():
		b.WriteString(st.Interaction.Answer.MustGet())
	default:
		b.WriteString(mutedStyle.Render("No answer yet. Ask a question to get started."))
	}
	if len(st.Interaction.Sources) == 0 {
		return b.String()
	}
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("Context / Sources"))
	cards := lo.Map(st.Interaction.Sources, func(s domain.SourceExcerpt, _ int) string {
		return renderSourceCard(s, st.Interaction.Question)
	})
	b.WriteString("\n")
	b.WriteString(strings.Join(cards, "\n"))
	return b.String()
}

func renderSourceCard(s domain.SourceExcerpt, question string) string {
	return cardStyle.Render(mutedStyle.Render(sourceHeader(s)) + "\n" + highlightBestSentence(s.Text, question))
}

// sourceHeader formats the provenance line of an excerpt, e.g. "page 2 • score 0.870".
func sourceHeader(s domain.SourceExcerpt) string {
	score := "-"
	if v, ok := s.RelevanceScore.Get(); ok {
		score = fmt.Sprintf("%.3f", v)
	}
	return fmt.Sprintf("page %d • score %s", s.PageNumber, score)
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	sectionStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cardStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

// highlightBestSentence emphasises the sentence of text sharing the most words with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := splitSentences(text)
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := 0
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestScore > 0 {
		sentences[bestIdx] = highlightStyle.Render(sentences[bestIdx])
	}
	return strings.Join(sentences, " ")
}

// splitSentences cuts text after sentence-ending punctuation followed by
// whitespace. Text after the last boundary is kept as a final piece.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if sent := strings.TrimSpace(text[start:loc[1]]); sent != "" {
			out = append(out, sent)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	return lo.SliceToMap(tokens, func(t string) (string, struct{}) { return t, struct{}{} })
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	tokens := lo.Uniq(unicodeWordRe.FindAllString(strings.ToLower(sentence), -1))
	return lo.CountBy(tokens, func(t string) bool {
		_, ok := queryTokens[t]
		return ok
	})
}
