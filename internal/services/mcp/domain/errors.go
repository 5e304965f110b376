package domain

import (
	"errors"
	"fmt"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
	"github.com/medinal/swade-character-creator/internal/platform/errors/i18n"
)

// toolError renders err for an MCP client. Domain errors carrying metadata
// use the en-US template for their code; anything else keeps its own text.
func toolError(op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	message := domainErr.Message
	if len(domainErr.Metadata) > 0 {
		message = i18n.GetCatalog(i18n.BaseLocale).Format(string(domainErr.Code), domainErr.Metadata)
	}
	return fmt.Errorf("%s failed [%s]: %s", op, domainErr.Code, message)
}
