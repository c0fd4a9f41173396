package emailsvc

import (
	"log"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

// NewService picks sendgrid when an API key is configured and the console otherwise.
func NewService(std *log.Logger, templates *core.EmailTemplates, logger core.Logger, conf *core.Config) core.EmailService {
	if conf.SendgridApiKey != "" && !conf.TestMode {
		return NewSendgridService(templates, logger, conf)
	}
	return NewConsoleService(std, templates, logger, conf)
}
