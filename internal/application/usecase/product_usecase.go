package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ProductUseCase casos de uso de productos. Las cantidades cambian por facturas y
// movimientos; aquí solo se fijan al crear, editar o importar.
type ProductUseCase struct {
	repo      repository.ProductRepository
	groups    repository.InventoryGroupRepository
	providers repository.ProviderRepository
	tx        CatalogTxRunner
	sheets    SheetReader
	storage   FileStorage
	activity  *ActivityRecorder
}

// NewProductUseCase construye el caso de uso. storage puede ser nil si no hay almacenamiento configurado.
func NewProductUseCase(
	repo repository.ProductRepository,
	groups repository.InventoryGroupRepository,
	providers repository.ProviderRepository,
	tx CatalogTxRunner,
	sheets SheetReader,
	storage FileStorage,
	activity *ActivityRecorder,
) *ProductUseCase {
	return &ProductUseCase{
		repo:      repo,
		groups:    groups,
		providers: providers,
		tx:        tx,
		sheets:    sheets,
		storage:   storage,
		activity:  activity,
	}
}

// List productos ordenados por código.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, q dto.ListQuery) (*dto.ListResponse[dto.ProductResponse], error) {
	f := ListFilter(companyID, q)
	rows, count, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ListResponse(f, rows, count, func(p *entity.ProductView) dto.ProductResponse {
		r := productToResponse(&p.Product)
		r.Group = p.GroupName
		r.Provider = p.ProviderName
		r.CreatedBy = p.CreatedBy
		return r
	}), nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	r := productToResponse(p)
	return &r, nil
}

func (uc *ProductUseCase) Create(ctx context.Context, companyID, actorID string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CreatedByID: actorID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyProduct(p, in)
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Creó el producto con id: %s", p.Code))
	r := productToResponse(p)
	return &r, nil
}

func (uc *ProductUseCase) Update(ctx context.Context, companyID, actorID, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	applyProduct(p, in)
	if err := uc.validate(ctx, p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Actualizó el producto %s. (%s)", p.Code, Describe(in)))
	r := productToResponse(p)
	return &r, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, companyID, actorID, id string) error {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("Eliminó el producto con id %s", p.Code))
	return nil
}

func (uc *ProductUseCase) ToggleActive(ctx context.Context, companyID, actorID, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	p.Active = !p.Active
	if err := uc.repo.SetActive(ctx, companyID, id, p.Active); err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, fmt.Sprintf("%s el producto %s", toggleVerb(p.Active), p.Code))
	r := productToResponse(p)
	return &r, nil
}

// Import crea productos a partir de un CSV o XLSX. La primera fila es el encabezado y
// las filas con la primera celda vacía se ignoran. Todo se inserta en una transacción.
//
// Columnas: group_id, code, name, photo, total_in_storage, total_in_shops,
// selling_price, buying_price, usd_price, provider_id.
func (uc *ProductUseCase) Import(ctx context.Context, companyID, actorID, filename string, r io.Reader) (*dto.ImportResult, error) {
	rows, err := uc.sheets.Rows(filename, r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %v: %w", err, domain.ErrInvalidInput)
	}
	now := time.Now()
	var products []*entity.Product
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		p, err := parseImportRow(i+1, row)
		if err != nil {
			return nil, err
		}
		p.ID = uuid.New().String()
		p.CompanyID = companyID
		p.CreatedByID = actorID
		p.Active = true
		p.CreatedAt = now
		p.UpdatedAt = now
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, domain.ErrEmptyImport
	}

	providers := make(map[string]bool)
	for _, p := range products {
		if p.ProviderID == nil || providers[*p.ProviderID] {
			continue
		}
		if err := uc.checkProvider(ctx, companyID, *p.ProviderID); err != nil {
			return nil, err
		}
		providers[*p.ProviderID] = true
	}

	err = uc.tx.RunCatalog(ctx, func(groupRepo repository.InventoryGroupRepository, productRepo repository.ProductRepository) error {
		groups := make(map[string]bool)
		for _, p := range products {
			if p.GroupID != nil && !groups[*p.GroupID] {
				g, err := groupRepo.GetByID(ctx, companyID, *p.GroupID)
				if err != nil {
					return err
				}
				if g == nil {
					return domain.NotFound(fmt.Sprintf("Categoría %s no encontrada", *p.GroupID))
				}
				groups[*p.GroupID] = true
			}
			if err := productRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("producto %s: %w", p.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, "Ingresó productos mediante archivo CSV")
	return &dto.ImportResult{Success: "Productos creados satisfactoriamente", Created: len(products)}, nil
}

// UploadPhoto guarda la foto en el almacenamiento de objetos bajo <company_id>/<uuid>-<nombre>.
func (uc *ProductUseCase) UploadPhoto(ctx context.Context, companyID, filename, contentType string, size int64, body io.Reader) (*dto.UploadPhotoResponse, error) {
	if body == nil || filename == "" {
		return nil, domain.ErrFileRequired
	}
	if uc.storage == nil {
		return nil, fmt.Errorf("almacenamiento de archivos no configurado: %w", domain.ErrConflict)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("%s/%s-%s", companyID, uuid.New().String(), SanitizeFilename(filename))
	obj, err := uc.storage.Upload(ctx, key, body, size, contentType)
	if err != nil {
		return nil, err
	}
	return &dto.UploadPhotoResponse{FinalURL: obj.FinalURL, ObjectKey: obj.Key, PresignedURL: obj.PresignedURL}, nil
}

// SanitizeFilename deja solo letras, dígitos, punto, guion y guion bajo.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if out := strings.Trim(b.String(), "."); out != "" {
		return out
	}
	return "archivo"
}

func (uc *ProductUseCase) get(ctx context.Context, companyID, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("Producto no encontrado")
	}
	return p, nil
}

func (uc *ProductUseCase) validate(ctx context.Context, p *entity.Product) error {
	if p.Code == "" || p.Name == "" {
		return fmt.Errorf("código y nombre son obligatorios: %w", domain.ErrInvalidInput)
	}
	if p.TotalInShops < 0 || p.TotalInStorage < 0 {
		return fmt.Errorf("las cantidades no pueden ser negativas: %w", domain.ErrInvalidInput)
	}
	if p.SellingPrice.IsNegative() || p.BuyingPrice.IsNegative() || p.USDPrice.IsNegative() {
		return fmt.Errorf("los precios no pueden ser negativos: %w", domain.ErrInvalidInput)
	}
	if p.GroupID != nil {
		g, err := uc.groups.GetByID(ctx, p.CompanyID, *p.GroupID)
		if err != nil {
			return err
		}
		if g == nil {
			return domain.NotFound("Categoría no encontrada")
		}
	}
	if p.ProviderID != nil {
		return uc.checkProvider(ctx, p.CompanyID, *p.ProviderID)
	}
	return nil
}

func (uc *ProductUseCase) checkProvider(ctx context.Context, companyID, id string) error {
	pr, err := uc.providers.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if pr == nil {
		return domain.NotFound("Proveedor no encontrado")
	}
	return nil
}

func applyProduct(p *entity.Product, in dto.ProductRequest) {
	setString(&p.Code, in.Code)
	setString(&p.Photo, in.Photo)
	setString(&p.Name, in.Name)
	setString(&p.CostCenter, in.CostCenter)
	setBool(&p.Active, in.Active)
	if in.GroupID != nil {
		p.GroupID = optionalID(*in.GroupID)
	}
	if in.ProviderID != nil {
		p.ProviderID = optionalID(*in.ProviderID)
	}
	if in.TotalInShops != nil {
		p.TotalInShops = *in.TotalInShops
	}
	if in.TotalInStorage != nil {
		p.TotalInStorage = *in.TotalInStorage
	}
	if in.SellingPrice != nil {
		p.SellingPrice = *in.SellingPrice
	}
	if in.BuyingPrice != nil {
		p.BuyingPrice = *in.BuyingPrice
	}
	if in.USDPrice != nil {
		p.USDPrice = *in.USDPrice
	}
}

// parseImportRow convierte una fila del archivo; rowNum es 1-based para el mensaje de error.
func parseImportRow(rowNum int, row []string) (*entity.Product, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	integer := func(i int, column string) (int, error) {
		v := cell(i)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, &domain.RowError{Row: rowNum, Column: column, Err: fmt.Errorf("número entero inválido %q", v)}
		}
		return n, nil
	}
	money := func(i int, column string) (decimal.Decimal, error) {
		v := cell(i)
		if v == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return decimal.Zero, &domain.RowError{Row: rowNum, Column: column, Err: fmt.Errorf("valor inválido %q", v)}
		}
		return d, nil
	}

	p := &entity.Product{
		GroupID:    optionalID(cell(0)),
		Code:       cell(1),
		Name:       cell(2),
		Photo:      cell(3),
		ProviderID: optionalID(cell(9)),
	}
	if p.Code == "" {
		return nil, &domain.RowError{Row: rowNum, Column: "code", Err: fmt.Errorf("código vacío")}
	}
	if p.Name == "" {
		return nil, &domain.RowError{Row: rowNum, Column: "name", Err: fmt.Errorf("nombre vacío")}
	}
	var err error
	if p.TotalInStorage, err = integer(4, "total_in_storage"); err != nil {
		return nil, err
	}
	if p.TotalInShops, err = integer(5, "total_in_shops"); err != nil {
		return nil, err
	}
	if p.SellingPrice, err = money(6, "selling_price"); err != nil {
		return nil, err
	}
	if p.BuyingPrice, err = money(7, "buying_price"); err != nil {
		return nil, err
	}
	if p.USDPrice, err = money(8, "usd_price"); err != nil {
		return nil, err
	}
	return p, nil
}

func optionalID(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func productToResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Photo:          p.Photo,
		ProviderID:     p.ProviderID,
		GroupID:        p.GroupID,
		Name:           p.Name,
		CostCenter:     p.CostCenter,
		TotalInShops:   p.TotalInShops,
		TotalInStorage: p.TotalInStorage,
		SellingPrice:   p.SellingPrice,
		BuyingPrice:    p.BuyingPrice,
		USDPrice:       p.USDPrice,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
	}
}
