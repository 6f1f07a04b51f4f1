package http

import (
	"taskvault/internal/adapter/database"
	"taskvault/internal/adapter/database/repository"
	"taskvault/internal/adapter/http/handler"
	"taskvault/internal/adapter/http/routes"
	"taskvault/internal/core/port"
	"taskvault/internal/core/service"
	"taskvault/internal/shared"
	"taskvault/pkg/auth"
)

// Container wires repositories, services and handlers onto one database
// handle. Everything downstream of the handle is constructor-injected.
type Container struct {
	UserRepo       port.UserRepository
	TodoRepo       port.TodoRepository
	CategoryRepo   port.CategoryRepository
	TagRepo        port.TagRepository
	AttachmentRepo port.AttachmentRepository
	SessionStore   port.SessionStore

	AuthUseCase       port.AuthService
	UserUseCase       port.UserService
	TodoUseCase       port.TodoService
	CategoryUseCase   port.CategoryService
	TagUseCase        port.TagService
	AttachmentUseCase port.AttachmentService
	AdminUseCase      port.AdminService

	JWT *auth.JWT

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	TodoHandler       *handler.TodoHandler
	CategoryHandler   *handler.CategoryHandler
	TagHandler        *handler.TagHandler
	AttachmentHandler *handler.AttachmentHandler
	AdminHandler      *handler.AdminHandler
}

func NewContainer(db *database.DB, cache *shared.ResponseCache, logger *shared.LokiLogger) *Container {
	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	sessionStore := repository.NewRefreshTokenRepository(db)

	jwt := auth.NewJWT()

	authSvc := service.NewAuthService(userRepo, sessionStore, jwt)
	userSvc := service.NewUserService(userRepo)
	todoSvc := service.NewTodoService(todoRepo, categoryRepo, tagRepo, attachmentRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	tagSvc := service.NewTagService(tagRepo)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, todoRepo)
	adminSvc := service.NewAdminService(userRepo, todoRepo, categoryRepo, tagRepo)

	return &Container{
		UserRepo:       userRepo,
		TodoRepo:       todoRepo,
		CategoryRepo:   categoryRepo,
		TagRepo:        tagRepo,
		AttachmentRepo: attachmentRepo,
		SessionStore:   sessionStore,

		AuthUseCase:       authSvc,
		UserUseCase:       userSvc,
		TodoUseCase:       todoSvc,
		CategoryUseCase:   categorySvc,
		TagUseCase:        tagSvc,
		AttachmentUseCase: attachmentSvc,
		AdminUseCase:      adminSvc,

		JWT: jwt,

		AuthHandler:       handler.NewAuthHandler(authSvc),
		UserHandler:       handler.NewUserHandler(userSvc),
		TodoHandler:       handler.NewTodoHandler(todoSvc, cache, logger),
		CategoryHandler:   handler.NewCategoryHandler(categorySvc, cache),
		TagHandler:        handler.NewTagHandler(tagSvc, cache),
		AttachmentHandler: handler.NewAttachmentHandler(attachmentSvc),
		AdminHandler:      handler.NewAdminHandler(adminSvc),
	}
}

// HandlersConfig bundles the container's handlers for route setup.
func (c *Container) HandlersConfig() routes.HandlersConfig {
	return routes.HandlersConfig{
		AuthHandler:       c.AuthHandler,
		UserHandler:       c.UserHandler,
		TodoHandler:       c.TodoHandler,
		CategoryHandler:   c.CategoryHandler,
		TagHandler:        c.TagHandler,
		AttachmentHandler: c.AttachmentHandler,
		AdminHandler:      c.AdminHandler,
		UserService:       c.UserUseCase,
		JWT:               c.JWT,
	}
}
