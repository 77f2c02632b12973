package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gopkg.in/gomail.v2"
)

// OAuthSender delivers through Gmail using XOAUTH2. Preferred strategy:
// hosting environments that block plain SMTP authentication still accept
// OAuth-authenticated sessions.
type OAuthSender struct {
	user   string
	dialer *gomail.Dialer
}

func NewOAuthSender(user, clientID, clientSecret, refreshToken string) *OAuthSender {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://mail.google.com/"},
	}
	ts := cfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})

	d := gomail.NewDialer("smtp.gmail.com", 587, user, "")
	d.Auth = &xoauth2Auth{user: user, tokens: ts}

	return &OAuthSender{user: user, dialer: d}
}

func (s *OAuthSender) Name() string { return "gmail-oauth2" }

func (s *OAuthSender) Send(m *Message) (string, error) {
	if s.user == "" {
		return "", fmt.Errorf("oauth user not configured")
	}
	msg := toGomail(m)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("oauth smtp send failed: %v", err)
	}
	return messageID(msg), nil
}

// xoauth2Auth implements the XOAUTH2 SASL mechanism on top of an oauth2
// token source, which refreshes the access token as needed.
type xoauth2Auth struct {
	user   string
	tokens oauth2.TokenSource
}

func (a *xoauth2Auth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	tok, err := a.tokens.Token()
	if err != nil {
		return "", nil, fmt.Errorf("failed to obtain access token: %v", err)
	}
	resp := fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", a.user, tok.AccessToken)
	return "XOAUTH2", []byte(resp), nil
}

func (a *xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// The server sends an error payload as a challenge; an empty
		// response tells it to finish the exchange.
		return []byte{}, nil
	}
	return nil, nil
}
