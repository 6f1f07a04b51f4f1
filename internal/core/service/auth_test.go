package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskvault/internal/adapter/database/repository"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/port"
	"taskvault/internal/core/service"
	"taskvault/pkg/auth"
	"taskvault/pkg/test"
	"taskvault/pkg/test/factory"
)

type AuthServiceTestSuite struct {
	suite.Suite
	Service  port.AuthService
	UserRepo port.UserRepository
	JWT      *auth.JWT
}

func TestAuthServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) SetupTest() {
	db := test.InitTestDB()

	s.UserRepo = repository.NewUserRepository(db)
	s.JWT = &auth.JWT{Secret: "test-secret", TTL: auth.DefaultAccessTokenTTL}
	s.Service = service.NewAuthService(s.UserRepo, repository.NewRefreshTokenRepository(db), s.JWT)
}

func (s *AuthServiceTestSuite) register(email string) *request.RegisterRequest {
	return &request.RegisterRequest{
		Email:    email,
		Password: factory.DefaultPassword,
		FullName: "Test User",
	}
}

func (s *AuthServiceTestSuite) TestRegisterIssuesSession() {
	res, err := s.Service.Register(context.Background(), *s.register("new@example.com"))

	Expect(err).To(BeNil())
	Expect(res.AccessToken).ToNot(BeEmpty())
	Expect(res.RefreshToken).ToNot(BeEmpty())
	Expect(res.User.Email).To(Equal("new@example.com"))
	Expect(res.User.Role).To(Equal("USER"))

	userID, err := s.JWT.Verify(res.AccessToken)
	Expect(err).To(BeNil())
	Expect(userID).To(Equal(res.User.ID))
}

func (s *AuthServiceTestSuite) TestRegisterDuplicateEmailConflicts() {
	_, err := s.Service.Register(context.Background(), *s.register("dup@example.com"))
	s.Require().NoError(err)

	_, err = s.Service.Register(context.Background(), *s.register("dup@example.com"))

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestLogin() {
	user, err := s.UserRepo.Create(context.Background(), factory.NewUser())
	s.Require().NoError(err)

	res, err := s.Service.Login(context.Background(), request.LoginRequest{
		Email:    user.Email,
		Password: factory.DefaultPassword,
	})

	Expect(err).To(BeNil())
	Expect(res.User.ID).To(Equal(user.ID))
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	user, err := s.UserRepo.Create(context.Background(), factory.NewUser())
	s.Require().NoError(err)

	_, err = s.Service.Login(context.Background(), request.LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})

	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestLoginUnknownEmailReportsSameError() {
	_, err := s.Service.Login(context.Background(), request.LoginRequest{
		Email:    "ghost@example.com",
		Password: factory.DefaultPassword,
	})

	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestLoginInactiveUserForbidden() {
	user, err := s.UserRepo.Create(context.Background(),
		factory.NewUser(map[string]any{"Status": domain.UserStatusInactive}))
	s.Require().NoError(err)

	_, err = s.Service.Login(context.Background(), request.LoginRequest{
		Email:    user.Email,
		Password: factory.DefaultPassword,
	})

	Expect(errors.Is(err, domain.ErrForbidden)).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestRefreshRotatesToken() {
	first, err := s.Service.Register(context.Background(), *s.register("rotate@example.com"))
	s.Require().NoError(err)

	second, err := s.Service.Refresh(context.Background(), first.RefreshToken)

	Expect(err).To(BeNil())
	Expect(second.RefreshToken).ToNot(Equal(first.RefreshToken))

	// The presented token was revoked on use.
	_, err = s.Service.Refresh(context.Background(), first.RefreshToken)
	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestRefreshUnknownToken() {
	_, err := s.Service.Refresh(context.Background(), "not-a-token")

	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestLogoutRevokesSession() {
	session, err := s.Service.Register(context.Background(), *s.register("bye@example.com"))
	s.Require().NoError(err)

	err = s.Service.Logout(context.Background(), session.RefreshToken)
	Expect(err).To(BeNil())

	_, err = s.Service.Refresh(context.Background(), session.RefreshToken)
	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func (s *AuthServiceTestSuite) TestLogoutUnknownTokenIsNoOp() {
	Expect(s.Service.Logout(context.Background(), "unknown")).To(BeNil())
}
