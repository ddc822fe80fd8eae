// Package anki is a client for the AnkiConnect HTTP API, the programmatic
// surface of a running Anki instance.
package anki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carlmjohnson/requests"
)

// ProtocolVersion is the AnkiConnect API version this client speaks.
const ProtocolVersion = 6

// DefaultURL is where a stock AnkiConnect install listens.
const DefaultURL = "http://127.0.0.1:8765"

// ErrNotRunning wraps connection failures so callers can suggest starting
// Anki instead of dumping a raw dial error.
var ErrNotRunning = errors.New("cannot reach AnkiConnect; is Anki running with the AnkiConnect add-on?")

// Client issues AnkiConnect actions against one Anki instance.
type Client struct {
	url string
}

// NewClient returns a client for the given AnkiConnect URL. An empty URL
// means DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url}
}

// request is the AnkiConnect envelope: every call posts an action with
// parameters and the protocol version.
type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke posts one action and decodes its result member into out.
func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	var resp response

	err := requests.
		URL(c.url).
		Post().
		BodyJSON(request{
			Action:  action,
			Version: ProtocolVersion,
			Params:  params,
		}).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotRunning, err)
	}

	if resp.Error != nil && *resp.Error != "" {
		return fmt.Errorf("anki: %s: %s", action, *resp.Error)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("anki: %s: failed to decode result: %w", action, err)
		}
	}

	return nil
}

// Version returns the AnkiConnect API version of the running instance.
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// FindNotes returns the IDs of notes matching an Anki search query
// (e.g. "deck:Spanish tag:verbs").
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	params := map[string]any{"query": query}
	if err := c.invoke(ctx, "findNotes", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo fetches the full field contents for the given note IDs.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]Note, error) {
	var infos []noteInfo
	params := map[string]any{"notes": ids}
	if err := c.invoke(ctx, "notesInfo", params, &infos); err != nil {
		return nil, err
	}

	notes := make([]Note, 0, len(infos))
	for _, info := range infos {
		notes = append(notes, info.toNote())
	}
	return notes, nil
}

// UpdateNoteFields writes the given field values on one note. Fields not
// named in the map are left untouched.
func (c *Client) UpdateNoteFields(ctx context.Context, id int64, fields map[string]string) error {
	params := map[string]any{
		"note": map[string]any{
			"id":     id,
			"fields": fields,
		},
	}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}

// ModelFieldNames returns the ordered field names of a note type.
func (c *Client) ModelFieldNames(ctx context.Context, modelName string) ([]string, error) {
	var names []string
	params := map[string]any{"modelName": modelName}
	if err := c.invoke(ctx, "modelFieldNames", params, &names); err != nil {
		return nil, err
	}
	return names, nil
}
