package dto

type PairRequest struct {
	InstallId  string `json:"install_id" validate:"required"`
	PairingKey string `json:"pairing_key" validate:"required"`
	UserAgent  string `json:"user_agent,omitempty"`
}

type PairResponse struct {
	DeviceId string `json:"device_id"`
	Token    string `json:"token"`
}
