package repository

import (
	"context"
	"errors"
	"slices"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *CatalogGormRepository) GetTenant(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var t models.Tenant
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, domain.ErrTenantNotFound)
	}
	return &t, nil
}

func (r *CatalogGormRepository) GetTenantBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var t models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&t).Error; err != nil {
		return nil, notFound(err, domain.ErrTenantNotFound)
	}
	return &t, nil
}

// GatewayCredentials é lido pelo dispatcher na hora do envio.
func (r *CatalogGormRepository) GatewayCredentials(
	ctx context.Context,
	tenantID uint,
) (notify.Credentials, error) {

	var t models.Tenant
	if err := r.db.WithContext(ctx).
		Select("id", "gateway_app_key", "gateway_auth_key").
		First(&t, tenantID).Error; err != nil {
		return notify.Credentials{}, notFound(err, domain.ErrTenantNotFound)
	}
	return notify.Credentials{AppKey: t.GatewayAppKey, AuthKey: t.GatewayAuthKey}, nil
}

// SaveGatewayDevice grava as chaves recebidas quando o aparelho conecta.
func (r *CatalogGormRepository) SaveGatewayDevice(
	ctx context.Context,
	tenantID uint,
	cred notify.Credentials,
	deviceID string,
) error {

	updates := map[string]any{
		"gateway_app_key":  cred.AppKey,
		"gateway_auth_key": cred.AuthKey,
	}
	if deviceID != "" {
		updates["gateway_device_id"] = deviceID
	}

	res := r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", tenantID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *CatalogGormRepository) GetStaff(
	ctx context.Context,
	id uint,
) (*models.StaffMember, error) {

	var s models.StaffMember
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, domain.ErrStaffNotFound)
	}
	return &s, nil
}

func (r *CatalogGormRepository) ListStaff(
	ctx context.Context,
	tenantID uint,
	onlyActive bool,
) ([]models.StaffMember, error) {

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var staff []models.StaffMember
	if err := q.Order("name ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// DeleteStaff remove o profissional com regras, bloqueios, agendamentos
// e pedidos de exclusão ligados a esses agendamentos.
func (r *CatalogGormRepository) DeleteStaff(
	ctx context.Context,
	tenantID uint,
	staffID uint,
) (bool, error) {

	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff models.StaffMember
		if err := tx.Where("id = ? AND tenant_id = ?", staffID, tenantID).
			First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		apptIDs := tx.Model(&models.Appointment{}).
			Select("id").
			Where("staff_id = ?", staffID)

		if err := tx.Where("appointment_id IN (?)", apptIDs).
			Delete(&models.DeletionRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_id = ?", staffID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_id = ?", staffID).Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_id = ?", staffID).Delete(&models.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&staff).Association("Services").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&staff).Error; err != nil {
			return err
		}

		deleted = true
		return nil
	})
	return deleted, err
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *CatalogGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}
	return &s, nil
}

func (r *CatalogGormRepository) ListServices(
	ctx context.Context,
	tenantID uint,
	onlyActive bool,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Staff ↔ Service
// --------------------------------------------------

const staffServicesTable = "staff_services"

func (r *CatalogGormRepository) StaffOffers(
	ctx context.Context,
	staffID uint,
	serviceID uint,
) (bool, error) {

	var links []uint
	if err := r.db.WithContext(ctx).
		Table(staffServicesTable).
		Where("staff_id = ?", staffID).
		Pluck("service_id", &links).Error; err != nil {
		return false, err
	}
	if len(links) == 0 {
		return true, nil
	}
	return slices.Contains(links, serviceID), nil
}

// StaffServiceIDs devolve os vínculos por profissional; quem não tem
// vínculo não aparece no mapa.
func (r *CatalogGormRepository) StaffServiceIDs(
	ctx context.Context,
	tenantID uint,
) (map[uint][]uint, error) {

	var rows []struct {
		StaffID   uint
		ServiceID uint
	}
	if err := r.db.WithContext(ctx).
		Table(staffServicesTable).
		Select("staff_services.staff_id, staff_services.service_id").
		Joins("JOIN staff_members ON staff_members.id = staff_services.staff_id").
		Where("staff_members.tenant_id = ?", tenantID).
		Order("staff_services.staff_id, staff_services.service_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uint][]uint)
	for _, row := range rows {
		out[row.StaffID] = append(out[row.StaffID], row.ServiceID)
	}
	return out, nil
}

// SetStaffServices troca todos os vínculos do profissional. Serviço de
// outro tenant devolve ErrServiceForeign sem alterar nada.
func (r *CatalogGormRepository) SetStaffServices(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	serviceIDs []uint,
) ([]models.Service, error) {

	var services []models.Service
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff models.StaffMember
		if err := tx.Where("id = ? AND tenant_id = ?", staffID, tenantID).
			First(&staff).Error; err != nil {
			return notFound(err, domain.ErrStaffNotFound)
		}

		if len(serviceIDs) > 0 {
			if err := tx.Where("id IN ? AND tenant_id = ?", serviceIDs, tenantID).
				Order("id ASC").
				Find(&services).Error; err != nil {
				return err
			}
			if len(services) != len(dedupe(serviceIDs)) {
				return domain.ErrServiceForeign
			}
		}

		if len(services) == 0 {
			return tx.Model(&staff).Association("Services").Clear()
		}
		return tx.Model(&staff).Association("Services").Replace(services)
	})
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}

func dedupe(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *CatalogGormRepository) GetClient(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Client, error) {

	var c models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&c).Error; err != nil {
		return nil, notFound(err, domain.ErrClientNotFound)
	}
	return &c, nil
}

func (r *CatalogGormRepository) GetOrCreateClient(
	ctx context.Context,
	tenantID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		TenantID: tenantID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// Compile-time check
var (
	_ domain.Catalog          = (*CatalogGormRepository)(nil)
	_ notify.CredentialSource = (*CatalogGormRepository)(nil)
)
