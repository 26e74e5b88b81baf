package dukeapi

import (
	"context"
	"net/url"
)

// PeopleURL builds the directory search endpoint for a name query.
func (c *Client) PeopleURL(name string) string {
	return streamerBaseURL + "/ldap/people?q=" + url.QueryEscape(name) +
		"&access_token=" + url.QueryEscape(c.accessToken)
}

// FetchPeople searches the Duke directory for people matching name.
func (c *Client) FetchPeople(ctx context.Context, name string) ([]byte, error) {
	return c.Get(ctx, c.PeopleURL(name), "people")
}
