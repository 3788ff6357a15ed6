package rbac

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/brisa-erp/brisa-erp/internal/authz"
)

// Service orchestrates RBAC operations and principal resolution.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	group singleflight.Group
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ListRoles returns all roles ordered by name.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("rbac: role name required")
	}
	return s.repo.CreateRole(ctx, name, strings.TrimSpace(description))
}

// UpdateRole updates an existing role and drops cached access profiles.
func (s *Service) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("rbac: role name required")
	}
	role, err := s.repo.UpdateRole(ctx, id, name, strings.TrimSpace(description))
	if err != nil {
		return Role{}, err
	}
	_ = s.cache.Invalidate(ctx)
	return role, nil
}

// DeleteRole removes a role by ID.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx)
}

// ListPermissions returns all persisted permissions ordered by name.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// EnsurePermission upserts a permission keeping its description current.
func (s *Service) EnsurePermission(ctx context.Context, name, description string) (Permission, error) {
	return s.repo.UpsertPermission(ctx, strings.TrimSpace(name), strings.TrimSpace(description))
}

// SyncCatalog upserts every catalog identifier into the permissions table so
// administration screens always offer the full closed set.
func (s *Service) SyncCatalog(ctx context.Context) error {
	for _, id := range authz.AllPermissions() {
		label, _ := authz.Label(id)
		if _, err := s.EnsurePermission(ctx, id, label); err != nil {
			return fmt.Errorf("rbac: sync catalog %s: %w", id, err)
		}
	}
	return nil
}

// RolePermissions lists permissions attached to a role.
func (s *Service) RolePermissions(ctx context.Context, roleID int64) ([]Permission, error) {
	return s.repo.ListRolePermissions(ctx, roleID)
}

// SetRolePermissions replaces permissions for a role.
func (s *Service) SetRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if err := s.repo.ReplaceRolePermissions(ctx, roleID, permissionIDs); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx)
}

// AssignRole assigns a role to the given user.
func (s *Service) AssignRole(ctx context.Context, userID, roleID int64) error {
	if err := s.repo.AssignRole(ctx, userID, roleID); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx)
}

// RemoveRole removes a role from a user.
func (s *Service) RemoveRole(ctx context.Context, userID, roleID int64) error {
	if err := s.repo.RemoveRole(ctx, userID, roleID); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx)
}

// InvalidateAccess drops every cached access profile.
func (s *Service) InvalidateAccess(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

// Access returns the flattened access profile of a user, served from cache
// when possible. Concurrent misses for the same user collapse into a single
// database round trip.
func (s *Service) Access(ctx context.Context, userID int64) (UserAccess, error) {
	if access, ok := s.cache.Get(ctx, userID); ok {
		return access, nil
	}
	result, err, _ := s.group.Do(strconv.FormatInt(userID, 10), func() (any, error) {
		access, err := s.repo.UserAccess(ctx, userID)
		if err != nil {
			return UserAccess{}, err
		}
		if err := s.cache.Put(ctx, access); err != nil {
			return access, nil
		}
		return access, nil
	})
	if err != nil {
		return UserAccess{}, err
	}
	return result.(UserAccess), nil
}

// PrincipalBySession resolves the session's user reference into a principal
// for guard evaluation.
func (s *Service) PrincipalBySession(ctx context.Context, userRef string) (*authz.Principal, error) {
	userID, err := strconv.ParseInt(strings.TrimSpace(userRef), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("rbac: parse user ref %q: %w", userRef, err)
	}
	access, err := s.Access(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &authz.Principal{
		ID:          access.UserID,
		Name:        access.Name,
		Email:       access.Email,
		Role:        access.Role,
		Roles:       access.Roles,
		Permissions: access.Permissions,
	}, nil
}

var _ authz.PrincipalSource = (*Service)(nil)
