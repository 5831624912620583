package router

import (
	"github.com/picshare/picshare-api/internal/application"
	"github.com/picshare/picshare-api/internal/container"
	pginfra "github.com/picshare/picshare-api/internal/infrastructure/postgres"
	handlers "github.com/picshare/picshare-api/internal/interface/http"
	"github.com/picshare/picshare-api/internal/router/modules"
	"github.com/picshare/picshare-api/pkg/helpers"
)

// InitModules builds the user stack from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// a typed nil publisher must not reach the service as a non-nil interface
	var pub application.EventPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	svc := application.NewService(
		repo,
		helpers.BcryptHasher{},
		container.GetJWT(),
		container.GetLogger(),
		pub,
		container.GetES(),
		container.GetConfig().ESUsersIndex,
	)

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger())
	userHandler := handlers.NewUserHandler(svc, container.GetLogger())

	r.Add(modules.NewUserModule(authHandler, userHandler, container.GetJWT()))
}
