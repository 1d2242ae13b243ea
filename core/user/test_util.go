package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a user service whose password reset mail is sent
// synchronously so tests can inspect the sent messages right away.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config) ServiceInterface {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
			conf:    conf,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	expiry := NowFunc().UTC().Add(svc.conf.PasswordResetTimeoutDelta)
	usr.ResetToken = uuid.New().String()
	usr.ResetExpiry = &expiry
	usr.UpdatedAt = NowFunc().UTC()
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return err
	}

	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
