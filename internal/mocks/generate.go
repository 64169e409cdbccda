// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the interfaces in internal/ports. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mocks for the storage interfaces from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=storage_mock.go github.com/tilworks/glossary/internal/ports UserRepository,TokenRepository,AcronymRepository,CategoryStore,CategoryRepository

// Generate mocks for the auth interfaces from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_mock.go github.com/tilworks/glossary/internal/ports CredentialVerifier,SessionStore,CSRFGuard,IdentityProvider
