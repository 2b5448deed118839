package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"ragqa/internal/domain"
)

// UploadFinishedMsg carries the outcome of an upload task.
type UploadFinishedMsg struct {
	Seq    uint64
	Record domain.DocumentRecord
	Err    error
}

// AnswerFinishedMsg carries the outcome of a question task.
type AnswerFinishedMsg struct {
	Seq    uint64
	Result domain.QueryResult
	Err    error
}

// Controller coordinates file selection, upload and question answering.
// It is not safe for concurrent use; drive it from the Bubble Tea update loop.
// Network calls run inside the returned commands and report back as messages.
type Controller struct {
	ctx     context.Context
	uploads domain.UploadService
	queries domain.QueryService
	log     *slog.Logger

	state     State
	uploadSeq uint64
	querySeq  uint64
}

// New creates a controller. ctx bounds every request it dispatches.
func New(ctx context.Context, uploads domain.UploadService, queries domain.QueryService, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{ctx: ctx, uploads: uploads, queries: queries, log: log}
	resetInteraction(&c.state)
	return c
}

// State returns a snapshot of the current state for rendering.
func (c *Controller) State() State { return c.state }

// Status describes the indexing status of the current document.
func (c *Controller) Status() string {
	if c.state.Document.Indexed() {
		return "Indexed"
	}
	return "Not uploaded"
}

// SelectFile replaces the selected file and clears the interaction.
// The current document stays usable until another upload succeeds.
// A nil blob means the selection was cancelled.
func (c *Controller) SelectFile(data []byte, name string) {
	if data == nil {
		return
	}
	// the upload of a superseded file must not land
	c.uploadSeq++
	c.Reset()
	selectFile(&c.state, data, name)
	c.log.Info("file selected", "filename", name, "bytes", len(data))
}

// Reset clears the interaction and busy flags. An answer still in flight is
// discarded; an upload still in flight lands, since the service may already
// have indexed it.
func (c *Controller) Reset() {
	c.querySeq++
	resetInteraction(&c.state)
}

// Upload dispatches the selected file to the indexing service. It returns nil
// when there is nothing to upload or an upload is already in flight.
func (c *Controller) Upload() tea.Cmd {
	if c.state.File == nil {
		return nil
	}
	if c.state.Interaction.IsUploading {
		c.log.Debug("upload ignored, already uploading")
		return nil
	}
	beginUpload(&c.state)
	c.uploadSeq++
	seq := c.uploadSeq
	file := *c.state.File
	c.log.Info("upload started", "filename", file.Name, "seq", seq)

	ctx, svc := c.ctx, c.uploads
	return func() tea.Msg {
		rec, err := guard(func() (domain.DocumentRecord, error) {
			return svc.Submit(ctx, file.Data, file.Name)
		})
		return UploadFinishedMsg{Seq: seq, Record: rec, Err: err}
	}
}

// Ask dispatches a question about the current document. Validation failures
// are reported through the state and never reach the network.
func (c *Controller) Ask(text string) tea.Cmd {
	if c.state.Interaction.IsAnswering {
		c.log.Debug("question ignored, already answering")
		return nil
	}
	c.state.Interaction.Question = text
	if err := validateQuestion(&c.state, text); err != nil {
		c.state.Interaction.Error = errorText(err)
		return nil
	}
	beginAsk(&c.state)
	c.querySeq++
	seq := c.querySeq
	docID := c.state.Document.ID.MustGet()
	c.log.Info("question started", "doc_id", docID, "seq", seq)

	ctx, svc := c.ctx, c.queries
	return func() tea.Msg {
		res, err := guard(func() (domain.QueryResult, error) {
			return svc.Ask(ctx, docID, text)
		})
		return AnswerFinishedMsg{Seq: seq, Result: res, Err: err}
	}
}

// Update applies completion messages. It reports whether msg was handled.
func (c *Controller) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case UploadFinishedMsg:
		c.handleUploadFinished(msg)
		return true
	case AnswerFinishedMsg:
		c.handleAnswerFinished(msg)
		return true
	}
	return false
}

func (c *Controller) handleUploadFinished(msg UploadFinishedMsg) {
	if msg.Seq != c.uploadSeq {
		c.log.Info("stale upload response discarded", "seq", msg.Seq, "current", c.uploadSeq)
		return
	}
	if msg.Err != nil {
		c.log.Warn("upload failed", "seq", msg.Seq, "kind", errorKind(msg.Err), "error", msg.Err)
	} else {
		c.log.Info("upload finished", "seq", msg.Seq, "doc_id", msg.Record.ID.OrElse(""))
		// an upload always starts a fresh session; drop any question still in flight
		c.querySeq++
	}
	finishUpload(&c.state, msg.Record, msg.Err)
}

func (c *Controller) handleAnswerFinished(msg AnswerFinishedMsg) {
	if msg.Seq != c.querySeq {
		c.log.Info("stale answer discarded", "seq", msg.Seq, "current", c.querySeq)
		return
	}
	if msg.Err != nil {
		c.log.Warn("question failed", "seq", msg.Seq, "kind", errorKind(msg.Err), "error", msg.Err)
	} else {
		c.log.Info("question finished", "seq", msg.Seq, "sources", len(msg.Result.Sources))
	}
	finishAsk(&c.state, msg.Result, msg.Err)
}

// guard turns a panicking collaborator into an error so busy flags are always released.
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	return fn()
}

func errorKind(err error) string {
	var (
		ve *domain.ValidationError
		se *domain.ServiceError
		te *domain.TransportError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &se):
		return "service"
	case errors.As(err, &te):
		return "transport"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "unknown"
	}
}
