package utility

import (
	"context"
	"strings"
)

// Queries holds the argument templates of the three utility queries.
// "{key}" and "{name}" are replaced by the mod key and setting name.
type Queries struct {
	ListMods []string
	ModInfo  []string
	Setting  []string
}

// DefaultQueries matches the OpenRA utility command line.
func DefaultQueries() Queries {
	return Queries{
		ListMods: []string{"--list-mods"},
		ModInfo:  []string{"--mod-info={key}"},
		Setting:  []string{"--settings-value={name}"},
	}
}

// Client issues the launcher's queries against a Starter.
type Client struct {
	starter Starter
	queries Queries
}

// NewClient creates a Client.
func NewClient(starter Starter, queries Queries) *Client {
	return &Client{starter: starter, queries: queries}
}

// ListMods asks for the installed mod keys, one per line.
func (c *Client) ListMods(ctx context.Context) <-chan Output {
	return c.starter.Start(ctx, expand(c.queries.ListMods, "", "")...)
}

// ModMetadata asks for the metadata block of one mod.
func (c *Client) ModMetadata(ctx context.Context, key string) <-chan Output {
	return c.starter.Start(ctx, expand(c.queries.ModInfo, "{key}", key)...)
}

// Setting asks for one persisted setting value.
func (c *Client) Setting(ctx context.Context, name string) <-chan Output {
	return c.starter.Start(ctx, expand(c.queries.Setting, "{name}", name)...)
}

func expand(template []string, placeholder, value string) []string {
	args := make([]string, len(template))
	for i, a := range template {
		if placeholder != "" {
			a = strings.ReplaceAll(a, placeholder, value)
		}
		args[i] = a
	}
	return args
}
