package controller

import (
	"strings"

	"github.com/samber/mo"

	"ragqa/internal/domain"
)

// NoAnswerPlaceholder is shown when the service answered without an answer.
const NoAnswerPlaceholder = "(no answer returned)"

// Interaction is the question/answer part of the state.
type Interaction struct {
	Question    string
	Answer      mo.Option[string]
	Sources     []domain.SourceExcerpt
	IsUploading bool
	IsAnswering bool
	Error       mo.Option[string]
}

// State is everything the controller owns for the lifetime of a session.
type State struct {
	File        *domain.SelectedFile
	Document    domain.DocumentRecord
	// DisplayName follows the latest event: the local name on selection,
	// the indexed name after a successful upload.
	DisplayName string
	Interaction Interaction
}

func emptyInteraction() Interaction {
	return Interaction{
		Answer:  mo.None[string](),
		Sources: []domain.SourceExcerpt{},
		Error:   mo.None[string](),
	}
}

func resetInteraction(s *State) {
	s.Interaction = emptyInteraction()
}

func selectFile(s *State, data []byte, name string) {
	s.File = &domain.SelectedFile{Data: data, Name: name}
	s.DisplayName = name
}

func beginUpload(s *State) {
	s.Interaction.IsUploading = true
	s.Interaction.Error = mo.None[string]()
}

func finishUpload(s *State, rec domain.DocumentRecord, err error) {
	defer func() { s.Interaction.IsUploading = false }()
	if err != nil {
		s.Interaction.Error = errorText(err)
		return
	}
	if rec.Filename == "" && s.File != nil {
		rec.Filename = s.File.Name
	}
	// a zero page count carries no information
	if pages, ok := rec.PageCount.Get(); !ok || pages == 0 {
		rec.PageCount = mo.None[int]()
	}
	s.Document = rec
	s.DisplayName = rec.Filename
	resetInteraction(s)
}

func errorText(err error) mo.Option[string] {
	return mo.Some(err.Error())
}

// validateQuestion checks the ask preconditions in order.
func validateQuestion(s *State, text string) error {
	if !s.Document.Indexed() {
		return domain.ErrNoDocument
	}
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyQuestion
	}
	return nil
}

func beginAsk(s *State) {
	s.Interaction.Error = mo.None[string]()
	s.Interaction.Answer = mo.None[string]()
	s.Interaction.Sources = []domain.SourceExcerpt{}
	s.Interaction.IsAnswering = true
}

func finishAsk(s *State, res domain.QueryResult, err error) {
	defer func() { s.Interaction.IsAnswering = false }()
	if err != nil {
		s.Interaction.Error = errorText(err)
		s.Interaction.Answer = mo.None[string]()
		s.Interaction.Sources = []domain.SourceExcerpt{}
		return
	}
	answer := res.Answer.OrElse("")
	if answer == "" {
		answer = NoAnswerPlaceholder
	}
	s.Interaction.Answer = mo.Some(answer)
	if res.Sources != nil {
		s.Interaction.Sources = res.Sources
	} else {
		s.Interaction.Sources = []domain.SourceExcerpt{}
	}
}
