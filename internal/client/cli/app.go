// Package cli implements the interactive terminal front end for the
// user API. It keeps a local copy of the user list and applies
// successful mutations to it, so the table the operator sees stays in
// step with the server without a refetch after every command.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go-user-api/internal/client"
)

// api is the slice of the HTTP client the app needs. Tests provide a stub.
type api interface {
	Health(ctx context.Context) (*client.Health, error)
	List(ctx context.Context, page, limit int) (*client.ListResult, error)
	Get(ctx context.Context, id string) (*client.User, error)
	Create(ctx context.Context, name, email string) (*client.User, error)
	Update(ctx context.Context, id, name, email string) (*client.User, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]client.User, error)
}

// App drives one interactive session.
type App struct {
	api    api
	reader *bufio.Reader
	out    io.Writer

	users []client.User
	total int64
}

// NewApp wires an app to an API client and an input/output pair.
func NewApp(api api, in io.Reader, out io.Writer) *App {
	return &App{api: api, reader: bufio.NewReader(in), out: out}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// Refresh fetches the first listing page and replaces the local list.
func (a *App) Refresh(ctx context.Context) error {
	res, err := a.api.List(ctx, 0, 0)
	if err != nil {
		a.printf("error: %v", err)
		return err
	}
	a.users = res.Users
	a.total = res.Pagination.Total
	a.printf("Loaded %d of %d users.", len(a.users), a.total)
	return nil
}

// List prints the locally held users as a table.
func (a *App) List(ctx context.Context) error {
	if len(a.users) == 0 {
		a.printf("No users found. Create one to get started!")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMAIL\tID")
	for i, u := range a.users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, u.Name, u.Email, u.ID)
	}
	return tw.Flush()
}

// Add prompts for a name and email and creates the user. The new user
// is prepended locally, matching the newest-first server ordering.
func (a *App) Add(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		a.printf("Name and email are required")
		return nil
	}

	u, err := a.api.Create(ctx, name, email)
	if err != nil {
		a.printf("error: %v", err)
		return nil
	}
	a.users = append([]client.User{*u}, a.users...)
	a.total++
	a.printf("Created %s <%s> (%s)", u.Name, u.Email, u.ID)
	return nil
}

// Delete removes a user by list number or id and drops it from the
// local list on success.
func (a *App) Delete(ctx context.Context, arg string) error {
	id := a.resolveID(arg)
	if id == "" {
		a.printf("usage: delete <number|id>")
		return nil
	}
	if err := a.api.Delete(ctx, id); err != nil {
		a.printf("error: %v", err)
		return nil
	}
	for i, u := range a.users {
		if u.ID == id {
			a.users = append(a.users[:i], a.users[i+1:]...)
			break
		}
	}
	if a.total > 0 {
		a.total--
	}
	a.printf("User deleted successfully")
	return nil
}

// Update prompts for replacement values. Empty answers keep the
// current value.
func (a *App) Update(ctx context.Context, arg string) error {
	id := a.resolveID(arg)
	if id == "" {
		a.printf("usage: update <number|id>")
		return nil
	}
	name, err := GetSimpleText(a.reader, "New name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "New email (empty to keep)", a.out)
	if err != nil {
		return err
	}

	u, err := a.api.Update(ctx, id, name, email)
	if err != nil {
		a.printf("error: %v", err)
		return nil
	}
	for i := range a.users {
		if a.users[i].ID == u.ID {
			a.users[i] = *u
			break
		}
	}
	a.printf("Updated %s <%s>", u.Name, u.Email)
	return nil
}

// Show prints one user's full record.
func (a *App) Show(ctx context.Context, arg string) error {
	id := a.resolveID(arg)
	if id == "" {
		a.printf("usage: show <number|id>")
		return nil
	}
	u, err := a.api.Get(ctx, id)
	if err != nil {
		a.printf("error: %v", err)
		return nil
	}
	a.printf("ID:      %s", u.ID)
	a.printf("Name:    %s", u.Name)
	a.printf("Email:   %s", u.Email)
	a.printf("Created: %s", u.CreatedAt.Format("2006-01-02 15:04:05"))
	a.printf("Updated: %s", u.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// Search queries the server and prints matches without touching the
// local list.
func (a *App) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		a.printf("usage: search <text>")
		return nil
	}
	users, err := a.api.Search(ctx, query)
	if err != nil {
		a.printf("error: %v", err)
		return nil
	}
	if len(users) == 0 {
		a.printf("No users match %q.", query)
		return nil
	}
	for _, u := range users {
		a.printf("%s <%s> (%s)", u.Name, u.Email, u.ID)
	}
	return nil
}

// Health pings the server.
func (a *App) Health(ctx context.Context) error {
	h, err := a.api.Health(ctx)
	if err != nil {
		a.printf("error: %v", err)
		return nil
	}
	a.printf("Server is %s, up %.0fs.", h.Status, h.Uptime)
	return nil
}

// resolveID accepts either a 1-based position in the local list or a
// raw id string.
func (a *App) resolveID(arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ""
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(a.users) {
			return ""
		}
		return a.users[n-1].ID
	}
	return arg
}
