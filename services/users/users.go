package users

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"currentlybackend/core"
	"currentlybackend/db"
	"currentlybackend/models"
	"currentlybackend/services"
)

type UsersService struct {
	usersRepo *db.PostgresUsersRepository
	txManager services.TransactionManager
}

func NewUsersService(repo *db.PostgresUsersRepository, txManager services.TransactionManager) *UsersService {
	return &UsersService{usersRepo: repo, txManager: txManager}
}

// GetOrCreateUser resolves the internal user for an auth-provider identity,
// creating it on first sight. The lookup takes a row lock so concurrent first
// requests from the same identity don't race two inserts.
func (s *UsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID, email string,
) (*models.User, error) {
	log.Printf("📋 Starting to get or create user for provider: %s", authProvider)
	if authProvider == "" {
		return nil, fmt.Errorf("auth provider cannot be empty")
	}
	if authProviderID == "" {
		return nil, fmt.Errorf("auth provider ID cannot be empty")
	}

	var user *models.User
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maybeUser, err := s.usersRepo.GetUserByAuthProvider(txCtx, authProvider, authProviderID, true)
		if err != nil {
			return fmt.Errorf("failed to get user by auth provider: %w", err)
		}
		if maybeUser.IsPresent() {
			user = maybeUser.MustGet()
			return nil
		}

		created, err := s.usersRepo.CreateUser(txCtx, authProvider, authProviderID, email)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - resolved user: %s", user.ID)
	return user, nil
}

func (s *UsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	log.Printf("📋 Starting to get user by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.User](), fmt.Errorf("user ID must be a valid ULID")
	}

	maybeUser, err := s.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		return mo.None[*models.User](), fmt.Errorf("failed to get user by ID: %w", err)
	}
	if !maybeUser.IsPresent() {
		log.Printf("📋 Completed successfully - user not found")
		return mo.None[*models.User](), nil
	}

	log.Printf("📋 Completed successfully - found user: %s", id)
	return maybeUser, nil
}
