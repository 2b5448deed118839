package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragqa/internal/controller"
	"ragqa/internal/domain"
)

type stubBackend struct {
	record    domain.DocumentRecord
	result    domain.QueryResult
	uploadErr error
	healthErr error
	uploads   int
	questions []string
}

func (s *stubBackend) Submit(context.Context, []byte, string) (domain.DocumentRecord, error) {
	s.uploads++
	return s.record, s.uploadErr
}

func (s *stubBackend) Ask(_ context.Context, _ string, question string) (domain.QueryResult, error) {
	s.questions = append(s.questions, question)
	return s.result, nil
}

func (s *stubBackend) Health(context.Context) error { return s.healthErr }

func newTestModel(t *testing.T, b *stubBackend) Model {
	t.Helper()
	ctrl := controller.New(context.Background(), b, b, nil)
	m := New(context.Background(), ctrl, b, Options{AllowedTypes: []string{".pdf"}, BaseURL: "http://test"})
	return step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// press sends a key and runs the command it returns, feeding the result back.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	m = next.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			m = step(t, m, msg)
		}
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestModel_UploadAndAskFlow(t *testing.T) {
	b := &stubBackend{
		record: domain.DocumentRecord{ID: mo.Some("d1"), Filename: "a.pdf", PageCount: mo.Some(5)},
		result: domain.QueryResult{
			Answer:  mo.Some("X is Y"),
			Sources: []domain.SourceExcerpt{{PageNumber: 2, RelevanceScore: mo.Some(0.87), Text: "X is Y indeed."}},
		},
	}
	m := newTestModel(t, b)
	assert.Contains(t, m.View(), "Not uploaded")

	m = step(t, m, fileLoadedMsg{path: "/tmp/a.pdf", data: []byte("%PDF")})
	require.NotNil(t, m.ctrl.State().File)
	assert.Equal(t, "a.pdf", m.ctrl.State().File.Name)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Equal(t, 1, b.uploads)
	view := m.View()
	assert.Contains(t, view, "Indexed")
	assert.Contains(t, view, "Re-upload")

	m = typeText(t, m, "What is X?")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"What is X?"}, b.questions)
	st := m.ctrl.State()
	assert.Equal(t, "X is Y", st.Interaction.Answer.OrElse(""))
	assert.Contains(t, m.View(), "page 2 • score 0.870")
	assert.Equal(t, "What is X?", m.input.Value())
}

func TestModel_AskWithoutDocumentShowsError(t *testing.T) {
	b := &stubBackend{}
	m := newTestModel(t, b)
	m = typeText(t, m, "anything")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, b.questions)
	assert.Contains(t, m.View(), "Upload a document first.")
}

func TestModel_UploadErrorShown(t *testing.T) {
	b := &stubBackend{uploadErr: &domain.ServiceError{Op: "Upload", StatusCode: 500, Body: "disk full"}}
	m := newTestModel(t, b)
	m = step(t, m, fileLoadedMsg{path: "a.pdf", data: []byte("x")})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})

	assert.Contains(t, m.View(), "Upload failed: 500 disk full")
	assert.False(t, m.ctrl.State().Interaction.IsUploading)
}

func TestModel_ResetClearsAskedQuestion(t *testing.T) {
	b := &stubBackend{
		record: domain.DocumentRecord{ID: mo.Some("d1")},
		result: domain.QueryResult{Answer: mo.Some("ok")},
	}
	m := newTestModel(t, b)
	m = step(t, m, fileLoadedMsg{path: "a.pdf", data: []byte("x")})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = typeText(t, m, "q?")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "q?", m.input.Value())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "", m.input.Value())
	assert.True(t, m.ctrl.State().Interaction.Answer.IsAbsent())
	assert.True(t, m.ctrl.State().Document.Indexed())
}

func TestModel_FileReadError(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	m = step(t, m, fileLoadedMsg{path: "missing.pdf", err: errors.New("no such file")})
	assert.Nil(t, m.ctrl.State().File)
	assert.Contains(t, m.View(), "Could not read file: no such file")
}

func TestModel_HealthStatus(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	m = step(t, m, healthMsg{err: errors.New("connection refused")})
	assert.Contains(t, m.View(), "backend unreachable: connection refused")

	m = step(t, m, healthMsg{})
	assert.Contains(t, m.View(), "backend ok http://test")
}

func TestModel_OpenAndCancelPicker(t *testing.T) {
	m := newTestModel(t, &stubBackend{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	assert.Equal(t, modePicker, m.mode)
	assert.NotNil(t, cmd)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeQuestion, m.mode)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7"), 0o644))

	msg, ok := loadFile(path)().(fileLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, []byte("%PDF-1.7"), msg.data)
}
