package service

import (
	"context"
	"time"

	"ai-sidebar-be/internal/config"
	"ai-sidebar-be/internal/dto"
	"ai-sidebar-be/internal/model"
	"ai-sidebar-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	// Pair exchanges the shared pairing key for a device-scoped token.
	Pair(ctx context.Context, req *dto.PairRequest) (*dto.PairResponse, error)
}

type authService struct {
	devices contract.DeviceRepository
	cfg     config.AuthConfig
}

func NewAuthService(devices contract.DeviceRepository, cfg config.AuthConfig) IAuthService {
	return &authService{
		devices: devices,
		cfg:     cfg,
	}
}

func (s *authService) Pair(ctx context.Context, req *dto.PairRequest) (*dto.PairResponse, error) {
	if s.cfg.PairingKeyHash == "" {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "Pairing is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PairingKeyHash), []byte(req.PairingKey)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid pairing key")
	}

	device, err := s.devices.FindByInstallId(ctx, req.InstallId)
	if err != nil {
		return nil, err
	}
	if device == nil {
		device = &model.Device{
			Id:        uuid.New(),
			InstallId: req.InstallId,
			UserAgent: req.UserAgent,
		}
		if err := s.devices.Create(ctx, device); err != nil {
			return nil, err
		}
	} else {
		if err := s.devices.TouchLastSeen(ctx, req.InstallId); err != nil {
			return nil, err
		}
	}

	claims := jwt.MapClaims{
		"device_id": device.Id.String(),
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.PairResponse{
		DeviceId: device.Id.String(),
		Token:    signed,
	}, nil
}
