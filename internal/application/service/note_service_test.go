package service

import (
	"context"
	"testing"
	"time"

	infraRepo "github.com/ferrigb/sistema-nota/internal/infrastructure/repository"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CRUD(t *testing.T) {
	svc := NewNoteService(infraRepo.NewNoteRepository(newTestDB(t)))
	ctx := context.Background()

	first, err := svc.CreateNote(ctx, &CreateNoteInput{Title: "Fornecedor", Content: "Ligar segunda"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.CreateNote(ctx, &CreateNoteInput{Title: "Estoque", Content: "Conferir arroz"})
	require.NoError(t, err)

	notes, err := svc.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)

	time.Sleep(5 * time.Millisecond)
	updated, err := svc.UpdateNote(ctx, first.ID, &UpdateNoteInput{Content: str("Ligar terça")})
	require.NoError(t, err)
	assert.Equal(t, "Fornecedor", updated.Title)
	assert.Equal(t, "Ligar terça", updated.Content)

	notes, err = svc.ListNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, notes[0].ID)

	require.NoError(t, svc.DeleteNote(ctx, first.ID))
	_, err = svc.GetNote(ctx, first.ID)
	assert.ErrorContains(t, err, "Note not found")
}

func TestNoteService_Validation(t *testing.T) {
	svc := NewNoteService(infraRepo.NewNoteRepository(newTestDB(t)))
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, &CreateNoteInput{Title: "Sem conteudo"})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "conteudo", appErr.Errors[0].Field)

	note, err := svc.CreateNote(ctx, &CreateNoteInput{Title: "A", Content: "B"})
	require.NoError(t, err)
	_, err = svc.UpdateNote(ctx, note.ID, &UpdateNoteInput{Title: str("  ")})
	assert.Error(t, err)

	assert.ErrorContains(t, svc.DeleteNote(ctx, uuid.New()), "Note not found")
}

func TestNoteService_ListEmpty(t *testing.T) {
	svc := NewNoteService(infraRepo.NewNoteRepository(newTestDB(t)))

	notes, err := svc.ListNotes(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}
