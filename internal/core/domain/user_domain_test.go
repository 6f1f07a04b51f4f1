package domain

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestParseRole(t *testing.T) {
	RegisterTestingT(t)

	role, err := ParseRole("ADMIN")
	Expect(err).To(BeNil())
	Expect(role).To(Equal(RoleAdmin))

	_, err = ParseRole("SUPERUSER")
	Expect(errors.Is(err, ErrBadRequest)).To(BeTrue())
}

func TestParseUserStatus(t *testing.T) {
	RegisterTestingT(t)

	for _, valid := range []string{"ACTIVE", "INACTIVE", "SUSPENDED"} {
		status, err := ParseUserStatus(valid)
		Expect(err).To(BeNil())
		Expect(string(status)).To(Equal(valid))
	}

	_, err := ParseUserStatus("BANNED")
	Expect(errors.Is(err, ErrBadRequest)).To(BeTrue())
}

func TestUserPredicates(t *testing.T) {
	RegisterTestingT(t)

	user := User{Role: RoleUser, Status: UserStatusActive}

	Expect(user.IsAdmin()).To(BeFalse())
	Expect(user.IsActive()).To(BeTrue())

	user.Role = RoleAdmin
	user.Status = UserStatusSuspended

	Expect(user.IsAdmin()).To(BeTrue())
	Expect(user.IsActive()).To(BeFalse())
}

func TestRefreshTokenUsable(t *testing.T) {
	RegisterTestingT(t)

	now := time.Now()
	token := RefreshToken{ExpiresAt: now.Add(time.Hour)}

	Expect(token.Usable(now)).To(BeTrue())
	Expect(token.Expired(now)).To(BeFalse())

	token.Revoked = true
	Expect(token.Usable(now)).To(BeFalse())

	token.Revoked = false
	Expect(token.Usable(now.Add(2 * time.Hour))).To(BeFalse())
	Expect(token.Expired(now.Add(2 * time.Hour))).To(BeTrue())
}
