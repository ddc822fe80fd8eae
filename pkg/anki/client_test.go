package anki

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// fakeAnkiConnect answers each action from a canned result/error pair and
// records the decoded requests it saw.
func fakeAnkiConnect(t *testing.T, answers map[string]string) (*Client, *[]request) {
	t.Helper()

	var seen []request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		seen = append(seen, req)

		answer, ok := answers[req.Action]
		if !ok {
			answer = `{"result": null, "error": "unsupported action"}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(answer)) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	return NewClient(server.URL), &seen
}

func TestClientVersion(t *testing.T) {
	client, seen := fakeAnkiConnect(t, map[string]string{
		"version": `{"result": 6, "error": null}`,
	})

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if version != 6 {
		t.Errorf("Expected version 6, got %d", version)
	}

	if len(*seen) != 1 || (*seen)[0].Version != ProtocolVersion {
		t.Errorf("Expected one request at protocol version %d, got %+v", ProtocolVersion, *seen)
	}
}

func TestClientFindNotes(t *testing.T) {
	client, seen := fakeAnkiConnect(t, map[string]string{
		"findNotes": `{"result": [1483959289817, 1483959291695], "error": null}`,
	})

	ids, err := client.FindNotes(context.Background(), "deck:Spanish")
	if err != nil {
		t.Fatalf("FindNotes returned error: %v", err)
	}

	expected := []int64{1483959289817, 1483959291695}
	if !reflect.DeepEqual(ids, expected) {
		t.Errorf("Expected %v, got %v", expected, ids)
	}

	params, ok := (*seen)[0].Params.(map[string]any)
	if !ok || params["query"] != "deck:Spanish" {
		t.Errorf("Expected query param, got %+v", (*seen)[0].Params)
	}
}

func TestClientNotesInfo(t *testing.T) {
	client, _ := fakeAnkiConnect(t, map[string]string{
		"notesInfo": `{
			"result": [{
				"noteId": 1502298033753,
				"modelName": "Basic",
				"fields": {
					"Front": {"value": "der Hund", "order": 0},
					"Back": {"value": "", "order": 1}
				}
			}],
			"error": null
		}`,
	})

	notes, err := client.NotesInfo(context.Background(), []int64{1502298033753})
	if err != nil {
		t.Fatalf("NotesInfo returned error: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(notes))
	}

	note := notes[0]
	if note.ID != 1502298033753 || note.ModelName != "Basic" {
		t.Errorf("Unexpected note identity: %+v", note)
	}
	if note.Fields["Front"] != "der Hund" || note.Fields["Back"] != "" {
		t.Errorf("Unexpected fields: %v", note.Fields)
	}
	if !reflect.DeepEqual(note.FieldOrder, []string{"Front", "Back"}) {
		t.Errorf("Expected field order [Front Back], got %v", note.FieldOrder)
	}
	if !note.HasField("Back") || note.HasField("Extra") {
		t.Error("HasField gave wrong answers")
	}
}

func TestClientUpdateNoteFields(t *testing.T) {
	client, seen := fakeAnkiConnect(t, map[string]string{
		"updateNoteFields": `{"result": null, "error": null}`,
	})

	err := client.UpdateNoteFields(context.Background(), 1502298033753, map[string]string{"Back": "the dog"})
	if err != nil {
		t.Fatalf("UpdateNoteFields returned error: %v", err)
	}
	if (*seen)[0].Action != "updateNoteFields" {
		t.Errorf("Expected updateNoteFields action, got %q", (*seen)[0].Action)
	}
}

func TestClientAPIError(t *testing.T) {
	client, _ := fakeAnkiConnect(t, map[string]string{
		"modelFieldNames": `{"result": null, "error": "model was not found: Nope"}`,
	})

	_, err := client.ModelFieldNames(context.Background(), "Nope")
	if err == nil {
		t.Fatal("Expected error from envelope")
	}
	if !strings.Contains(err.Error(), "model was not found") {
		t.Errorf("Expected envelope error message, got %v", err)
	}
}

func TestClientNotRunning(t *testing.T) {
	// A closed server port looks like Anki not running.
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url)
	_, err := client.Version(context.Background())
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("Expected ErrNotRunning, got %v", err)
	}
}
