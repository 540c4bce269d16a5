package responses

import "github.com/docstacker/docsign/fsm/types/responses"

type BaseResponse struct {
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result"`
}

type TypedStylesResponse struct {
	Styles  []string `json:"styles"`
	Default string   `json:"default"`
}

type CaptureTypedResponse struct {
	Status responses.SigningStatusResponse `json:"status"`
	Scale  float64                         `json:"scale"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
	PreviewURL  string `json:"previewUrl"`
}
