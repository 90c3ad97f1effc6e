// Package memstore implementa en memoria los repositorios y el TxRunner para pruebas de casos de uso.
// Run trabaja sobre una copia del estado y solo la publica si fn termina sin error, con lo que
// reproduce commit/rollback. Las transacciones se serializan con un mutex global.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/wms-api/internal/application/ports"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store almacén en memoria.
type Store struct {
	mu   sync.Mutex
	data *state

	// FailAuditAppend, si no es nil, lo devuelve cada Append de auditoría.
	FailAuditAppend error
	// Commits cuenta las transacciones confirmadas.
	Commits int
}

type state struct {
	products      map[string]entity.Product
	inventory     map[string]entity.InventoryRecord // por product_id
	suppliers     map[string]entity.Supplier
	inbound       []entity.InboundDocument
	inboundItems  []entity.InboundLineItem
	outbound      []entity.OutboundDocument
	outboundItems []entity.OutboundLineItem
	audit         []entity.AuditEntry
	activity      []entity.ActivityLog
	attachments   []entity.OutboundAttachment
	users         map[string]entity.User
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		inventory: map[string]entity.InventoryRecord{},
		suppliers: map[string]entity.Supplier{},
		users:     map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:      make(map[string]entity.Product, len(s.products)),
		inventory:     make(map[string]entity.InventoryRecord, len(s.inventory)),
		suppliers:     make(map[string]entity.Supplier, len(s.suppliers)),
		users:         make(map[string]entity.User, len(s.users)),
		inbound:       append([]entity.InboundDocument(nil), s.inbound...),
		inboundItems:  append([]entity.InboundLineItem(nil), s.inboundItems...),
		outbound:      append([]entity.OutboundDocument(nil), s.outbound...),
		outboundItems: append([]entity.OutboundLineItem(nil), s.outboundItems...),
		audit:         append([]entity.AuditEntry(nil), s.audit...),
		activity:      append([]entity.ActivityLog(nil), s.activity...),
		attachments:   append([]entity.OutboundAttachment(nil), s.attachments...),
	}
	for k, v := range s.products {
		v.Tags = append([]string(nil), v.Tags...)
		c.products[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// New crea un almacén vacío.
func New() *Store { return &Store{data: newState()} }

// Run implementa ports.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.data.clone()
	v := view{store: s, with: func(f func(*state)) { f(work) }}
	if err := fn(v.repos()); err != nil {
		return err
	}
	s.data = work
	s.Commits++
	return nil
}

// Repos devuelve repositorios fuera de transacción sobre el estado confirmado.
func (s *Store) Repos() ports.TxRepos { return s.committed().repos() }

// Activity repositorio de activity_logs.
func (s *Store) Activity() repository.ActivityLogRepository { return activityRepo{s.committed()} }

// Attachments repositorio de adjuntos.
func (s *Store) Attachments() repository.AttachmentRepository { return attachmentRepo{s.committed()} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s.committed()} }

func (s *Store) committed() view {
	return view{store: s, with: func(f func(*state)) {
		s.mu.Lock()
		defer s.mu.Unlock()
		f(s.data)
	}}
}

// ── Siembra e inspección ─────────────────────────────────────────────────────

// SeedProduct agrega un producto activo con su registro de inventario.
func (s *Store) SeedProduct(p entity.Product, rec entity.InventoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Status == "" {
		p.Status = entity.ProductActive
	}
	s.data.products[p.ID] = p
	rec.ProductID = p.ID
	if rec.ID == "" {
		rec.ID = "inv-" + p.ID
	}
	s.data.inventory[p.ID] = rec
}

// SeedProductWithoutInventory agrega un producto sin registro de inventario.
func (s *Store) SeedProductWithoutInventory(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Status == "" {
		p.Status = entity.ProductActive
	}
	s.data.products[p.ID] = p
}

// SeedSupplier agrega un proveedor.
func (s *Store) SeedSupplier(sup entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.suppliers[sup.ID] = sup
}

// Inventory devuelve el registro confirmado del producto.
func (s *Store) Inventory(productID string) (entity.InventoryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.inventory[productID]
	return r, ok
}

// Product devuelve el producto confirmado.
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[id]
	return p, ok
}

// ProductBySKU devuelve el producto confirmado con ese SKU.
func (s *Store) ProductBySKU(sku string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data.products {
		if p.SKU == sku {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Snapshot copia del estado confirmado.
type Snapshot struct {
	Inbound       []entity.InboundDocument
	InboundItems  []entity.InboundLineItem
	Outbound      []entity.OutboundDocument
	OutboundItems []entity.OutboundLineItem
	Audit         []entity.AuditEntry
	Activity      []entity.ActivityLog
	Products      int
}

// Snapshot devuelve los documentos, la auditoría y la actividad confirmados.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.data.clone()
	return Snapshot{
		Inbound:       c.inbound,
		InboundItems:  c.inboundItems,
		Outbound:      c.outbound,
		OutboundItems: c.outboundItems,
		Audit:         c.audit,
		Activity:      c.activity,
		Products:      len(c.products),
	}
}

// ── Repositorios ─────────────────────────────────────────────────────────────

type view struct {
	store *Store
	with  func(func(*state))
}

func (v view) repos() ports.TxRepos {
	return ports.TxRepos{
		Products:  productRepo{v},
		Inventory: inventoryRepo{v},
		Suppliers: supplierRepo{v},
		Inbound:   inboundRepo{v},
		Outbound:  outboundRepo{v},
		Audit:     auditRepo{v},
	}
}

type productRepo struct{ v view }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	var err error
	r.v.with(func(s *state) {
		for _, existing := range s.products {
			if existing.SKU == p.SKU {
				err = domain.ErrDuplicate
				return
			}
		}
		c := *p
		c.Tags = append([]string(nil), p.Tags...)
		s.products[p.ID] = c
	})
	return err
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.with(func(s *state) {
		if p, ok := s.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.v.with(func(s *state) {
		for _, p := range s.products {
			if p.SKU == sku {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	var err error
	r.v.with(func(s *state) {
		if _, ok := s.products[p.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		c := *p
		c.Tags = append([]string(nil), p.Tags...)
		s.products[p.ID] = c
	})
	return err
}

func (r productRepo) Archive(_ context.Context, id string, onlyActive bool) (bool, error) {
	changed := false
	r.v.with(func(s *state) {
		p, ok := s.products[id]
		if !ok || (onlyActive && p.Status != entity.ProductActive) {
			return
		}
		p.Status = entity.ProductArchived
		s.products[id] = p
		changed = true
	})
	return changed, nil
}

func (r productRepo) ListActive(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	r.v.with(func(s *state) {
		for _, p := range s.products {
			if p.Status != entity.ProductActive {
				continue
			}
			if f.Query != "" && !contains(p.Name, f.Query) && !contains(p.Description, f.Query) {
				continue
			}
			if f.SKU != "" && !contains(p.SKU, f.SKU) {
				continue
			}
			if f.Category != "" && !contains(p.Category, f.Category) {
				continue
			}
			if f.Tag != "" && !anyContains(p.Tags, f.Tag) {
				continue
			}
			p := p
			out = append(out, &p)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r productRepo) Categories(_ context.Context) ([]string, error) {
	set := map[string]struct{}{}
	r.v.with(func(s *state) {
		for _, p := range s.products {
			if p.Status == entity.ProductActive && p.Category != "" {
				set[p.Category] = struct{}{}
			}
		}
	})
	return sortedKeys(set), nil
}

func (r productRepo) Tags(_ context.Context) ([]string, error) {
	set := map[string]struct{}{}
	r.v.with(func(s *state) {
		for _, p := range s.products {
			if p.Status != entity.ProductActive {
				continue
			}
			for _, t := range p.Tags {
				set[t] = struct{}{}
			}
		}
	})
	return sortedKeys(set), nil
}

type inventoryRepo struct{ v view }

func (r inventoryRepo) Create(_ context.Context, rec *entity.InventoryRecord) error {
	var err error
	r.v.with(func(s *state) {
		if _, ok := s.inventory[rec.ProductID]; ok {
			err = domain.ErrDuplicate
			return
		}
		s.inventory[rec.ProductID] = *rec
	})
	return err
}

func (r inventoryRepo) GetByProduct(_ context.Context, productID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	r.v.with(func(s *state) {
		if rec, ok := s.inventory[productID]; ok {
			out = &rec
		}
	})
	return out, nil
}

func (r inventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	return r.GetByProduct(ctx, productID)
}

func (r inventoryRepo) Update(_ context.Context, rec *entity.InventoryRecord) error {
	var err error
	r.v.with(func(s *state) {
		if _, ok := s.inventory[rec.ProductID]; !ok {
			err = domain.ErrRecordNotFound
			return
		}
		s.inventory[rec.ProductID] = *rec
	})
	return err
}

type supplierRepo struct{ v view }

func (r supplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.v.with(func(s *state) { s.suppliers[sup.ID] = *sup })
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.v.with(func(s *state) {
		if sup, ok := s.suppliers[id]; ok {
			out = &sup
		}
	})
	return out, nil
}

func (r supplierRepo) ListActive(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	r.v.with(func(s *state) {
		for _, sup := range s.suppliers {
			if sup.Status == "active" {
				sup := sup
				out = append(out, &sup)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type inboundRepo struct{ v view }

func (r inboundRepo) CreateHeader(_ context.Context, doc *entity.InboundDocument) error {
	r.v.with(func(s *state) { s.inbound = append(s.inbound, *doc) })
	return nil
}

func (r inboundRepo) AddItem(_ context.Context, item *entity.InboundLineItem) error {
	var err error
	r.v.with(func(s *state) {
		if _, ok := s.products[item.ProductID]; !ok {
			err = domain.ErrRecordNotFound
			return
		}
		s.inboundItems = append(s.inboundItems, *item)
	})
	return err
}

func (r inboundRepo) List(_ context.Context, limit, offset int) ([]entity.InboundSummary, error) {
	var out []entity.InboundSummary
	r.v.with(func(s *state) {
		for _, d := range s.inbound {
			sum := entity.InboundSummary{
				ID: d.ID, ReferenceNo: d.ReferenceNo, ReceivedDate: d.ReceivedDate, CreatedAt: d.CreatedAt,
				SupplierName: s.suppliers[d.SupplierID].Name,
			}
			for _, it := range s.inboundItems {
				if it.InboundID == d.ID {
					sum.TotalItems++
					sum.TotalQuantity += it.Quantity
				}
			}
			out = append(out, sum)
		}
	})
	return page(out, limit, offset), nil
}

type outboundRepo struct{ v view }

func (r outboundRepo) CreateHeader(_ context.Context, doc *entity.OutboundDocument) error {
	r.v.with(func(s *state) { s.outbound = append(s.outbound, *doc) })
	return nil
}

func (r outboundRepo) AddItem(_ context.Context, item *entity.OutboundLineItem) error {
	var err error
	r.v.with(func(s *state) {
		if _, ok := s.products[item.ProductID]; !ok {
			err = domain.ErrRecordNotFound
			return
		}
		s.outboundItems = append(s.outboundItems, *item)
	})
	return err
}

func (r outboundRepo) GetByID(_ context.Context, id string) (*entity.OutboundDocument, error) {
	var out *entity.OutboundDocument
	r.v.with(func(s *state) {
		for _, d := range s.outbound {
			if d.ID == id {
				d := d
				out = &d
				return
			}
		}
	})
	return out, nil
}

func (r outboundRepo) Items(_ context.Context, outboundID string) ([]entity.OutboundLineDetail, error) {
	var out []entity.OutboundLineDetail
	r.v.with(func(s *state) {
		for _, it := range s.outboundItems {
			if it.OutboundID != outboundID {
				continue
			}
			p := s.products[it.ProductID]
			out = append(out, entity.OutboundLineDetail{ProductID: it.ProductID, SKU: p.SKU, Name: p.Name, Quantity: it.Quantity})
		}
	})
	return out, nil
}

func (r outboundRepo) List(_ context.Context, limit, offset int) ([]entity.OutboundSummary, error) {
	var out []entity.OutboundSummary
	r.v.with(func(s *state) {
		for _, d := range s.outbound {
			sum := entity.OutboundSummary{
				ID: d.ID, CustomerName: d.CustomerName, SOReference: d.SOReference,
				DispatchDate: d.DispatchDate, CreatedAt: d.CreatedAt,
			}
			for _, it := range s.outboundItems {
				if it.OutboundID == d.ID {
					sum.TotalItems++
					sum.TotalQuantity += it.Quantity
				}
			}
			out = append(out, sum)
		}
	})
	return page(out, limit, offset), nil
}

type auditRepo struct{ v view }

func (r auditRepo) Append(_ context.Context, e *entity.AuditEntry) error {
	if r.v.store.FailAuditAppend != nil {
		return r.v.store.FailAuditAppend
	}
	r.v.with(func(s *state) { s.audit = append(s.audit, *e) })
	return nil
}

func (r auditRepo) List(_ context.Context, limit, offset int) ([]entity.AuditEntryView, error) {
	var out []entity.AuditEntryView
	r.v.with(func(s *state) {
		for i := len(s.audit) - 1; i >= 0; i-- {
			e := s.audit[i]
			p := s.products[e.ProductID]
			out = append(out, entity.AuditEntryView{AuditEntry: e, SKU: p.SKU, Name: p.Name})
		}
	})
	return page(out, limit, offset), nil
}

type activityRepo struct{ v view }

func (r activityRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	r.v.with(func(s *state) { s.activity = append(s.activity, *l) })
	return nil
}

func (r activityRepo) ListRecent(_ context.Context, limit int) ([]entity.ActivityLog, error) {
	var out []entity.ActivityLog
	r.v.with(func(s *state) {
		for i := len(s.activity) - 1; i >= 0; i-- {
			l := s.activity[i]
			if u, ok := s.users[l.UserID]; ok {
				l.UserEmail, l.UserRole = u.Email, u.Role
			}
			out = append(out, l)
		}
	})
	return page(out, limit, 0), nil
}

type attachmentRepo struct{ v view }

func (r attachmentRepo) Create(_ context.Context, a *entity.OutboundAttachment) error {
	r.v.with(func(s *state) { s.attachments = append(s.attachments, *a) })
	return nil
}

func (r attachmentRepo) ListByOutbound(_ context.Context, outboundID string) ([]*entity.OutboundAttachment, error) {
	var out []*entity.OutboundAttachment
	r.v.with(func(s *state) {
		for _, a := range s.attachments {
			if a.OutboundID == outboundID {
				a := a
				out = append(out, &a)
			}
		}
	})
	return out, nil
}

type userRepo struct{ v view }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	var err error
	r.v.with(func(s *state) {
		for _, existing := range s.users {
			if strings.EqualFold(existing.Email, u.Email) {
				err = domain.ErrDuplicate
				return
			}
		}
		s.users[u.ID] = *u
	})
	return err
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.v.with(func(s *state) {
		if u, ok := s.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.v.with(func(s *state) {
		for _, u := range s.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r userRepo) UpsertByEmail(_ context.Context, u *entity.User) error {
	r.v.with(func(s *state) {
		for id, existing := range s.users {
			if strings.EqualFold(existing.Email, u.Email) {
				existing.PasswordHash, existing.Role, existing.Name = u.PasswordHash, u.Role, u.Name
				s.users[id] = existing
				u.ID = id
				return
			}
		}
		s.users[u.ID] = *u
	})
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContains(list []string, sub string) bool {
	for _, s := range list {
		if contains(s, sub) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
