// Package mocks provides generated mock implementations for repository
// interfaces used by the service layer.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	repo := mocks.NewMockLinkRepository(ctrl)
//	repo.EXPECT().ListByUser(gomock.Any(), "user-1").Return(links, nil)
package mocks

// MockUserRepository: Upsert, GetByID, GetByEmail, List
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/hrbrew/hrbrew-api/internal/core UserRepository

// MockLinkRepository: Create, GetByID, ListByUser, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=link_repository_mock.go github.com/hrbrew/hrbrew-api/internal/core LinkRepository

// MockActivityRepository: Log, LogPasswordChange
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=activity_repository_mock.go github.com/hrbrew/hrbrew-api/internal/core ActivityRepository
