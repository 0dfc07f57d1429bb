package contract

import (
	"context"

	"ai-sidebar-be/internal/model"
)

type DeviceRepository interface {
	Create(ctx context.Context, device *model.Device) error
	// FindByInstallId returns (nil, nil) when the install is unknown.
	FindByInstallId(ctx context.Context, installId string) (*model.Device, error)
	TouchLastSeen(ctx context.Context, installId string) error
}
