package service

import (
	"context"

	"go.uber.org/zap"
)

// WelcomePolicy describes the message seeded into a new user's inbox on
// registration. Content and sender are policy, not store behavior.
type WelcomePolicy struct {
	From    string
	Subject string
	Body    string
}

// Directory is the thin composition root handed to the presentation
// layer. It wires the welcome-message side effect between the auth and
// mail services and logs mutating auth calls; everything else is reached
// through the component services directly.
//
// The Directory performs no authorization. Author-only edit and delete
// checks belong to the caller.
type Directory struct {
	auth  *AuthService
	mail  *MailService
	forum *ForumService
	log   *zap.Logger
}

// NewDirectory composes the services over the given repositories. The
// welcome policy is applied on every successful registration; log must not
// be nil (use zap.NewNop in tests).
func NewDirectory(
	authRepo AuthRepository,
	mailRepo MailRepository,
	forumRepo ForumRepository,
	welcome WelcomePolicy,
	log *zap.Logger,
) *Directory {
	mail := NewMailService(mailRepo)
	seed := func(ctx context.Context, username string) error {
		_, err := mail.Send(ctx, welcome.From, username, welcome.Subject, welcome.Body)
		return err
	}
	return &Directory{
		auth:  NewAuthService(authRepo, PlainTextVerifier{}, seed),
		mail:  mail,
		forum: NewForumService(forumRepo),
		log:   log,
	}
}

// Mail returns the mailbox service.
func (d *Directory) Mail() *MailService { return d.mail }

// Forum returns the question and answer service.
func (d *Directory) Forum() *ForumService { return d.forum }

// Register creates or replaces the user's credential and seeds the
// welcome message.
func (d *Directory) Register(ctx context.Context, username, secret string) error {
	if err := d.auth.Register(ctx, username, secret); err != nil {
		d.log.Error("registration failed", zap.String("username", username), zap.Error(err))
		return err
	}
	d.log.Info("user registered", zap.String("username", username))
	return nil
}

// UserExists reports whether the username is registered.
func (d *Directory) UserExists(ctx context.Context, username string) (bool, error) {
	return d.auth.UserExists(ctx, username)
}

// Login runs the authentication protocol and returns the outcome.
func (d *Directory) Login(ctx context.Context, username, secret string) (LoginResult, error) {
	res, err := d.auth.Login(ctx, username, secret)
	if err != nil {
		return res, err
	}
	switch res.Outcome {
	case LoginOK:
		d.log.Info("login succeeded", zap.String("username", username))
	case LoginLockedOut:
		d.log.Warn("login rejected, account locked",
			zap.String("username", username),
			zap.Int64("minutes_remaining", res.MinutesRemaining))
	default:
		d.log.Info("login failed", zap.String("username", username))
	}
	return res, nil
}

// Logout ends the session for the token.
func (d *Directory) Logout(ctx context.Context, token string) error {
	return d.auth.Logout(ctx, token)
}

// CurrentUser resolves a session token to its username.
func (d *Directory) CurrentUser(ctx context.Context, token string) (string, bool, error) {
	return d.auth.CurrentUser(ctx, token)
}
