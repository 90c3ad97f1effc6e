package attachment_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/attachment"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/storage"
	"github.com/jhoicas/wms-api/internal/testutil/memstore"
)

var manager = entity.Actor{UserID: uuid.NewString(), Role: entity.RoleManager}

type noteStub struct {
	lines []entity.OutboundLineDetail
}

func (n *noteStub) ProductLabel(context.Context, *entity.Product) ([]byte, error) { return nil, nil }

func (n *noteStub) DispatchNote(_ context.Context, _ *entity.OutboundDocument, lines []entity.OutboundLineDetail) ([]byte, error) {
	n.lines = lines
	return []byte("%PDF-note"), nil
}

type fixture struct {
	store      *memstore.Store
	disk       *storage.LocalDisk
	uc         *attachment.UseCase
	note       *noteStub
	outboundID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	productID := uuid.NewString()
	store.SeedProduct(entity.Product{ID: productID, SKU: "SKU-1", Name: "Caja"}, entity.InventoryRecord{Quantity: 5})
	outboundID := uuid.NewString()
	repos := store.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Outbound.CreateHeader(ctx, &entity.OutboundDocument{ID: outboundID, CustomerName: "Cliente", DispatchDate: time.Now()}))
	require.NoError(t, repos.Outbound.AddItem(ctx, &entity.OutboundLineItem{ID: uuid.NewString(), OutboundID: outboundID, ProductID: productID, Quantity: 2}))

	note := &noteStub{}
	logger := activity.NewLogger(activity.NewRepositoryRecorder(store.Activity()), zerolog.Nop())
	uc := attachment.NewUseCase(repos.Outbound, store.Attachments(), disk, note, logger, zerolog.Nop(), 1024)
	return &fixture{store: store, disk: disk, uc: uc, note: note, outboundID: outboundID}
}

func pdfUpload(size int) attachment.Upload {
	body := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), size-9)...)
	return attachment.Upload{FileName: `C:\docs\guia.pdf`, ContentType: "application/pdf", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestAttach_GuardaArchivoYMetadatos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Attach(ctx, manager, f.outboundID, pdfUpload(100))
	require.NoError(t, err)
	assert.Equal(t, "guia.pdf", res.FileName)
	assert.Equal(t, "application/pdf", res.MimeType)
	assert.Equal(t, int64(100), res.Size)

	rc, err := f.disk.Get(ctx, res.FilePath)
	require.NoError(t, err)
	stored, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Len(t, stored, 100)

	list, err := f.uc.List(ctx, f.outboundID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)

	snap := f.store.Snapshot()
	require.Len(t, snap.Activity, 1)
	assert.Equal(t, entity.ActionUpload, snap.Activity[0].Action)
}

func TestAttach_DespachoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Attach(context.Background(), manager, uuid.NewString(), pdfUpload(50))
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.List(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttach_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Attach(ctx, manager, f.outboundID, pdfUpload(2048))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "supera el máximo")

	txt := attachment.Upload{FileName: "a.txt", ContentType: "text/plain", Size: 3, Body: bytes.NewReader([]byte("abc"))}
	_, err = f.uc.Attach(ctx, manager, f.outboundID, txt)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo no permitido")

	fake := attachment.Upload{FileName: "a.png", ContentType: "image/png", Size: 3, Body: bytes.NewReader([]byte("abc"))}
	_, err = f.uc.Attach(ctx, manager, f.outboundID, fake)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "contenido no coincide")

	list, err := f.uc.List(ctx, f.outboundID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAttach_ErrorDeLecturaNoEsRechazoDeTipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	errRead := errors.New("conexión cortada")

	body := io.MultiReader(bytes.NewReader([]byte("%PDF-1.4\n")), iotest.ErrReader(errRead))
	up := attachment.Upload{FileName: "guia.pdf", ContentType: "application/pdf", Size: 600, Body: body}

	_, err := f.uc.Attach(ctx, manager, f.outboundID, up)
	require.ErrorIs(t, err, errRead)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.uc.List(ctx, f.outboundID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDispatchNote(t *testing.T) {
	f := newFixture(t)

	pdf, err := f.uc.DispatchNote(context.Background(), f.outboundID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-note", string(pdf))
	require.Len(t, f.note.lines, 1)
	assert.Equal(t, "SKU-1", f.note.lines[0].SKU)
	assert.Equal(t, int64(2), f.note.lines[0].Quantity)

	_, err = f.uc.DispatchNote(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
