package ops

import (
	"context"

	"github.com/hpungsan/stickerpack/internal/editor"
	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/logger"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/sticker"
)

// InsertInput contains parameters for the Insert operation.
type InsertInput struct {
	Sticker string        // required, path of a sticker in the configured folder
	Cursor  editor.Cursor // insertion point, clipped to the document
}

// InsertOutput contains the result of the Insert operation.
type InsertOutput struct {
	Reference string        `json:"reference"`
	Cursor    editor.Cursor `json:"cursor"`
}

// Insert picks a sticker from the configured folder and writes its reference
// into sink at the cursor.
func Insert(ctx context.Context, resolver sticker.Resolver, s settings.Settings, sink editor.Sink, input InsertInput) (*InsertOutput, error) {
	if _, err := cleanPath(input.Sticker); err != nil {
		return nil, err
	}

	session, err := OpenSession(ctx, resolver, s)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return InsertChoice(ctx, session, sink, input)
}

// InsertChoice chooses from an open session and writes the reference into sink.
// A successful choice closes the session even when the write fails.
func InsertChoice(ctx context.Context, session *Session, sink editor.Sink, input InsertInput) (*InsertOutput, error) {
	ref, err := session.Choose(input.Sticker)
	if err != nil {
		return nil, err
	}

	if err := sink.Insert(ctx, ref, input.Cursor); err != nil {
		return nil, errors.As(err)
	}

	logger.Info("sticker inserted", "sticker", input.Sticker, "line", input.Cursor.Line, "ch", input.Cursor.Ch)
	return &InsertOutput{Reference: ref, Cursor: input.Cursor}, nil
}
