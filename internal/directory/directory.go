// Package directory checks user credentials and group membership against
// Active Directory over LDAP.
package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
)

var (
	ErrValidation         = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthorized      = errors.New("user is not authorized to access this system")
	ErrDirectory          = errors.New("directory unavailable")
)

// transitiveMemberOf is LDAP_MATCHING_RULE_IN_CHAIN, which also matches
// nested group membership.
const transitiveMemberOf = "1.2.840.113556.1.4.1941"

type Config struct {
	URL          string
	Domain       string
	BindUser     string
	BindPassword string
	SearchBase   string
	GroupDN      string
	Timeout      time.Duration
}

// Conn is the subset of *ldap.Conn used by the verifier.
type Conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Unbind() error
}

type DialFunc func(ctx context.Context) (Conn, error)

type Verifier struct {
	Config Config
	Dial   DialFunc
}

func NewVerifier(cfg Config) *Verifier {
	v := &Verifier{Config: cfg}
	v.Dial = v.dialLDAP
	return v
}

func (v *Verifier) dialLDAP(ctx context.Context) (Conn, error) {
	dialer := &net.Dialer{Timeout: v.Config.Timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	conn, err := ldap.DialURL(v.Config.URL,
		ldap.DialWithDialer(dialer),
		ldap.DialWithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}),
	)
	if err != nil {
		return nil, err
	}
	if v.Config.Timeout > 0 {
		conn.SetTimeout(v.Config.Timeout)
	}
	return conn, nil
}

// QualifiedName returns DOMAIN\username, or username when no domain is set.
func (v *Verifier) QualifiedName(username string) string {
	if v.Config.Domain == "" {
		return username
	}
	return v.Config.Domain + `\` + username
}

// MembershipFilter matches the account only when it belongs, directly or
// through nested groups, to the configured authorization group.
func (v *Verifier) MembershipFilter(username string) string {
	return fmt.Sprintf("(&(sAMAccountName=%s)(memberOf:%s:=%s))",
		ldap.EscapeFilter(username),
		transitiveMemberOf,
		ldap.EscapeFilter(v.Config.GroupDN),
	)
}

// session dials and returns the connection with a release func that unbinds
// exactly once, either when called or when ctx is cancelled.
func (v *Verifier) session(ctx context.Context) (Conn, func() error, error) {
	conn, err := v.Dial(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: dial: %w", ErrDirectory, err)
	}

	release := sync.OnceValue(conn.Unbind)
	if err := ctx.Err(); err != nil {
		_ = release()
		return nil, nil, fmt.Errorf("%w: %w", ErrDirectory, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = release() })

	return conn, func() error {
		stop()
		return release()
	}, nil
}

// Verify binds as the user and then checks group membership. A nil error
// means the user is authorized.
func (v *Verifier) Verify(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrValidation
	}

	conn, release, err := v.session(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	if err := conn.Bind(v.QualifiedName(username), password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("%w: bind: %w", ErrDirectory, err)
	}

	req := ldap.NewSearchRequest(
		v.Config.SearchBase,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		int(v.Config.Timeout.Seconds()),
		false,
		v.MembershipFilter(username),
		[]string{"sAMAccountName"},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return fmt.Errorf("%w: search: %w", ErrDirectory, err)
	}
	if len(res.Entries) == 0 {
		return ErrNotAuthorized
	}
	return nil
}

// Ping checks that the directory answers and, when a service account is
// configured, that it accepts a bind.
func (v *Verifier) Ping(ctx context.Context) error {
	conn, release, err := v.session(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	if v.Config.BindUser == "" {
		return nil
	}
	if err := conn.Bind(v.QualifiedName(v.Config.BindUser), v.Config.BindPassword); err != nil {
		return fmt.Errorf("%w: service bind: %w", ErrDirectory, err)
	}
	return nil
}
