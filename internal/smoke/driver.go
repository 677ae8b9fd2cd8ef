// Package smoke drives the register → login → profile scenario against an
// auth service and reports every step on the console.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/hongminglow/auth-smoke/internal/auth"
	"github.com/hongminglow/auth-smoke/internal/client"
	"github.com/hongminglow/auth-smoke/internal/console"
	"github.com/hongminglow/auth-smoke/internal/models"
	"github.com/hongminglow/auth-smoke/internal/models/dto"
)

// AuthAPI is the subset of the auth service the driver calls.
type AuthAPI interface {
	Register(ctx context.Context, req dto.RegisterRequest) (models.UserRecord, error)
	Login(ctx context.Context, identifier, password string) (dto.LoginResponse, error)
	Me(ctx context.Context, token string) (models.UserRecord, error)
}

// TokenEntry pairs a collected token with the nick that obtained it.
type TokenEntry struct {
	Nick  string
	Token string
}

// Report summarises a run. Failures counts steps that did not produce a result.
// Interrupted is set when the context was cancelled before every user ran.
type Report struct {
	Tokens      []TokenEntry
	Failures    int
	Interrupted bool
}

// OK reports whether every user ran and every attempted step succeeded.
func (r Report) OK() bool { return r.Failures == 0 && !r.Interrupted }

// Nicks lists the nicks that obtained a token, in registration order.
func (r Report) Nicks() []string {
	return lo.Map(r.Tokens, func(e TokenEntry, _ int) string { return e.Nick })
}

// Driver runs the scenario one call at a time. It is not safe for concurrent use.
type Driver struct {
	api   AuthAPI
	out   io.Writer
	style console.Styler

	failures int
}

// NewDriver returns a Driver printing to out.
func NewDriver(api AuthAPI, out io.Writer, style console.Styler) *Driver {
	return &Driver{api: api, out: out, style: style}
}

// Register creates u on the service. It reports false when the call failed for any reason.
func (d *Driver) Register(ctx context.Context, u TestUser) (models.UserRecord, bool) {
	rec, err := d.api.Register(ctx, dto.RegisterRequest{
		Name:     u.Name,
		Nick:     u.Nick,
		Email:    u.Email,
		Password: u.Password,
		Gang:     u.Gang,
	})
	if err != nil {
		d.fail(err, "Failed to register "+u.Nick, "Exception while registering "+u.Nick)
		return models.UserRecord{}, false
	}
	if rec.Nick != u.Nick || rec.Email != u.Email {
		d.failures++
		d.println(d.style.Failure(fmt.Sprintf("Failed to register %s: service echoed nick %q and email %q", u.Nick, rec.Nick, rec.Email)))
		return models.UserRecord{}, false
	}

	d.println(d.style.Success(fmt.Sprintf("User %s registered successfully!", u.Nick)))
	d.info("  ID", strconv.FormatInt(rec.ID, 10))
	d.info("  Name", rec.Name)
	d.info("  Nick", rec.Nick)
	d.info("  Email", rec.Email)
	d.info("  Gang", rec.Gang)
	return rec, true
}

// Login returns the full bearer token for identifier, printing a truncated preview.
func (d *Driver) Login(ctx context.Context, identifier, password string) (string, bool) {
	resp, err := d.api.Login(ctx, identifier, password)
	if err != nil {
		d.fail(err, "Failed to log in with "+identifier, "Exception while logging in with "+identifier)
		return "", false
	}

	d.println(d.style.Success(fmt.Sprintf("Logged in successfully as %s!", identifier)))
	d.info("  User ID", strconv.FormatInt(resp.User.ID, 10))
	d.info("  Nick", resp.User.Nick)
	d.info("  Gang", resp.User.Gang)
	d.info("  Token", console.Truncate(resp.Token))
	if claims, err := auth.Inspect(resp.Token); err == nil && claims.ExpiresAt != nil {
		d.info("  Expires", claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return resp.Token, true
}

// FetchProfile shows the profile token belongs to.
func (d *Driver) FetchProfile(ctx context.Context, token string) (models.UserRecord, bool) {
	rec, err := d.api.Me(ctx, token)
	if err != nil {
		d.fail(err, "Failed to fetch profile", "Exception while fetching profile")
		return models.UserRecord{}, false
	}

	d.println(d.style.Success("User profile fetched successfully!"))
	d.info("  ID", strconv.FormatInt(rec.ID, 10))
	d.info("  Name", rec.Name)
	d.info("  Nick", rec.Nick)
	d.info("  Email", lo.CoalesceOrEmpty(rec.Email, "N/A"))
	d.info("  Gang", rec.Gang)
	d.info("  Anonymous", strconv.FormatBool(rec.IsAnonymous))
	return rec, true
}

// Run processes users in order and prints the token summary. Failures never
// abort the run; they only skip the remaining steps of that user.
func (d *Driver) Run(ctx context.Context, users []TestUser) Report {
	d.failures = 0
	var report Report

	d.println(d.style.Banner("AUTH API SMOKE TEST", false))

	for i, u := range users {
		if ctx.Err() != nil {
			d.println(d.style.Failure("Run interrupted: " + ctx.Err().Error()))
			report.Interrupted = true
			break
		}
		d.print(d.style.Section(fmt.Sprintf("USER %d: %s", i+1, u.Name)))

		d.println(d.style.Step("Registering user..."))
		if _, ok := d.Register(ctx, u); !ok {
			continue
		}

		d.println("")
		d.println(d.style.Step("Logging in..."))
		token, ok := d.Login(ctx, u.Email, u.Password)
		if !ok {
			continue
		}
		report.Tokens = append(report.Tokens, TokenEntry{Nick: u.Nick, Token: token})

		d.println("")
		d.println(d.style.Step("Verifying token..."))
		d.FetchProfile(ctx, token)
	}

	if len(report.Tokens) > 0 {
		d.print(d.style.Section("TOKEN SUMMARY"))
		for i, e := range report.Tokens {
			d.println(d.style.Label(fmt.Sprintf("User %d: %s", i+1, e.Nick)))
			d.println(d.style.Key("Full token"))
			d.println(e.Token)
			d.println("")
		}
	}

	d.println(d.style.Banner("TEST FINISHED!", true))

	report.Failures = d.failures
	return report
}

// fail prints apiMsg for service-reported errors and excMsg for everything else.
func (d *Driver) fail(err error, apiMsg, excMsg string) {
	d.failures++

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		d.println(d.style.Failure(apiMsg + ": " + apiErr.Message))
		return
	}
	d.println(d.style.Failure(excMsg + ": " + err.Error()))
}

func (d *Driver) info(key, value string) {
	d.println(d.style.Info(key, value))
}

func (d *Driver) println(s string) {
	fmt.Fprintln(d.out, s)
}

func (d *Driver) print(s string) {
	fmt.Fprint(d.out, s)
}
