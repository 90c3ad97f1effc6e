// Package attachment documentos de soporte de los despachos: adjuntos y nota de despacho en PDF.
package attachment

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// DefaultMaxBytes tamaño máximo de un adjunto (5 MiB).
const DefaultMaxBytes int64 = 5 << 20

var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// Upload archivo recibido para adjuntar.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UseCase adjuntos y nota de despacho.
type UseCase struct {
	outbound    repository.OutboundRepository
	attachments repository.AttachmentRepository
	storage     ports.FileStorage
	renderer    ports.DocumentRenderer
	activity    *activity.Logger
	log         zerolog.Logger
	maxBytes    int64
	now         func() time.Time
}

// NewUseCase construye el caso de uso. maxBytes <= 0 usa DefaultMaxBytes.
func NewUseCase(
	outbound repository.OutboundRepository,
	attachments repository.AttachmentRepository,
	storage ports.FileStorage,
	renderer ports.DocumentRenderer,
	activityLogger *activity.Logger,
	log zerolog.Logger,
	maxBytes int64,
) *UseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &UseCase{
		outbound:    outbound,
		attachments: attachments,
		storage:     storage,
		renderer:    renderer,
		activity:    activityLogger,
		log:         log,
		maxBytes:    maxBytes,
		now:         time.Now,
	}
}

// Attach guarda el archivo y registra sus metadatos. El despacho debe existir.
// Solo se aceptan PDF, JPEG y PNG; el tipo se verifica también por contenido.
func (uc *UseCase) Attach(ctx context.Context, actor entity.Actor, outboundID string, up Upload) (*dto.AttachmentResponse, error) {
	doc, err := uc.outbound.GetByID(ctx, outboundID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if up.Size <= 0 {
		return nil, domain.Invalid("file", "es requerido")
	}
	if up.Size > uc.maxBytes {
		return nil, domain.Invalid("file", fmt.Sprintf("supera el máximo de %d bytes", uc.maxBytes))
	}

	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(up.ContentType, ";", 2)[0]))
	ext, ok := allowedTypes[declared]
	if !ok {
		return nil, domain.Invalid("file", "solo se permiten PDF, JPEG o PNG")
	}
	br := bufio.NewReaderSize(up.Body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("leer adjunto: %w", err)
	}
	if sniffed := http.DetectContentType(head); sniffed != declared {
		return nil, domain.Invalid("file", "el contenido no coincide con el tipo declarado")
	}

	a := &entity.OutboundAttachment{
		ID:         uuid.NewString(),
		OutboundID: doc.ID,
		FileName:   path.Base(strings.ReplaceAll(up.FileName, "\\", "/")),
		MimeType:   declared,
		Size:       up.Size,
		UploadedAt: uc.now().UTC(),
	}
	a.FilePath = path.Join("outbound", doc.ID, a.ID+ext)

	if err := uc.storage.Put(ctx, a.FilePath, io.LimitReader(br, uc.maxBytes), up.Size, declared); err != nil {
		return nil, fmt.Errorf("guardar adjunto: %w", err)
	}
	if err := uc.attachments.Create(ctx, a); err != nil {
		if derr := uc.storage.Delete(context.WithoutCancel(ctx), a.FilePath); derr != nil {
			uc.log.Warn().Err(derr).Str("key", a.FilePath).Msg("no se pudo borrar el adjunto huérfano")
		}
		return nil, err
	}

	uc.activity.Log(ctx, actor, entity.ActionUpload, entity.EntityOutbound, doc.ID)
	return toAttachmentResponse(a), nil
}

// List adjuntos del despacho.
func (uc *UseCase) List(ctx context.Context, outboundID string) ([]dto.AttachmentResponse, error) {
	doc, err := uc.outbound.GetByID(ctx, outboundID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.attachments.ListByOutbound(ctx, outboundID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAttachmentResponse(a))
	}
	return out, nil
}

// DispatchNote PDF con las líneas del despacho.
func (uc *UseCase) DispatchNote(ctx context.Context, outboundID string) ([]byte, error) {
	doc, err := uc.outbound.GetByID(ctx, outboundID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.outbound.Items(ctx, outboundID)
	if err != nil {
		return nil, err
	}
	return uc.renderer.DispatchNote(ctx, doc, lines)
}

func toAttachmentResponse(a *entity.OutboundAttachment) *dto.AttachmentResponse {
	return &dto.AttachmentResponse{
		ID:         a.ID,
		OutboundID: a.OutboundID,
		FileName:   a.FileName,
		FilePath:   a.FilePath,
		MimeType:   a.MimeType,
		Size:       a.Size,
		UploadedAt: a.UploadedAt,
	}
}
