package chat

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"arbor/internal/config"
	chatSvc "arbor/internal/domain/services/chat"
)

// ValidateSubmitRequest checks a submission payload before any store call
func ValidateSubmitRequest(req *chatSvc.SubmitRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Content,
			validation.Required,
			validation.Length(1, config.MaxMessageLength),
		),
		validation.Field(&req.EditingMessageID, is.UUID),
	)
}
