package implementation

import (
	"context"
	"errors"
	"time"

	"ai-sidebar-be/internal/model"
	"ai-sidebar-be/internal/repository/contract"

	"gorm.io/gorm"
)

type DeviceRepositoryImpl struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) contract.DeviceRepository {
	return &DeviceRepositoryImpl{db: db}
}

func (r *DeviceRepositoryImpl) Create(ctx context.Context, device *model.Device) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *DeviceRepositoryImpl) FindByInstallId(ctx context.Context, installId string) (*model.Device, error) {
	var m model.Device
	if err := r.db.WithContext(ctx).Where("install_id = ?", installId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *DeviceRepositoryImpl) TouchLastSeen(ctx context.Context, installId string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Device{}).
		Where("install_id = ?", installId).
		Update("last_seen_at", now).Error
}
