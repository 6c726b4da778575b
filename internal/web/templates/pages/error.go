package pages

import "github.com/hankerbiao/Registration-System/internal/web/templates/layout"

// ErrorData is a full page error
type ErrorData struct {
	layout.PageData
	Status  int
	Message string
}
