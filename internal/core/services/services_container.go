package services

import (
	"log/slog"

	portsrepo "github.com/ucontacts/contacts_app/internal/core/ports/repositories"
	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/platform/config"
)

// NewServiceContainer wires every application service around the repository
// provider and the shared cache. A nil cache disables read caching entirely.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider, cache portssvc.Cache) *portssvc.ServiceContainer {
	tokenSvc := NewTokenService(cfg, repos.UserRepo)
	mailerSvc := NewEmailService(cfg)

	uploadSvc, err := NewUploadService(cfg)
	var fileUpload portssvc.FileUploadSvc
	if err != nil {
		slog.Warn("avatar upload disabled", "error", err)
	} else {
		fileUpload = uploadSvc
	}

	return &portssvc.ServiceContainer{
		User:        NewUserService(repos.UserRepo, tokenSvc, mailerSvc),
		Contact:     NewContactService(repos.ContactRepo, cache),
		Token:       tokenSvc,
		Mailer:      mailerSvc,
		FileUpload:  fileUpload,
		GoogleOAuth: NewGoogleOAuthService(cfg),
		Cache:       cache,
	}
}
