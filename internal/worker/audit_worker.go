package worker

import (
	"github.com/spec-kit/partner-portal/internal/service"
)

// StartAuditWorker registers the signup audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
