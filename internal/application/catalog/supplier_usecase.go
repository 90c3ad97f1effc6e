package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-api/internal/application/activity"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/application/validation"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// SupplierUseCase alta y listado de proveedores.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	activity *activity.Logger
	now      func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, activityLogger *activity.Logger) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, activity: activityLogger, now: time.Now}
}

// Create registra un proveedor activo.
func (uc *SupplierUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	s := &entity.Supplier{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		Status:        "active",
		CreatedAt:     uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.activity.Log(ctx, actor, entity.ActionCreate, entity.EntitySupplier, s.ID)
	return toSupplierResponse(s), nil
}

// List proveedores activos ordenados por nombre.
func (uc *SupplierUseCase) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
	}
}
