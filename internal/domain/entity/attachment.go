package entity

import "time"

// OutboundAttachment archivo de soporte asociado a un despacho ya confirmado.
type OutboundAttachment struct {
	ID         string
	OutboundID string
	FileName   string
	FilePath   string // clave en el almacenamiento (disco local o S3)
	MimeType   string
	Size       int64
	UploadedAt time.Time
}
