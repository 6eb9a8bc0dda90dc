package txapi

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire format shared by every backend response. Result
// is kept raw so callers can decode it into their own types; Success
// reports whether the backend considered the call successful.
type Envelope struct {
	Result  json.RawMessage `json:"result"`
	Success bool            `json:"success"`
	Info    Info            `json:"info"`
}

// Info is the status block attached to every response. The pagination
// triple is only present on list responses.
type Info struct {
	Code         int    `json:"code"                    yaml:"code"`
	Message      string `json:"message"                 yaml:"message"`
	Session      string `json:"session,omitempty"       yaml:"session,omitempty"`
	Page         int    `json:"page,omitempty"          yaml:"page,omitempty"`
	TotalPages   int    `json:"total_pages,omitempty"   yaml:"total_pages,omitempty"`
	TotalResults int    `json:"total_results,omitempty" yaml:"total_results,omitempty"`
}

// Link is a single hypermedia reference attached to a record.
type Link struct {
	Rel    string `json:"rel"    yaml:"rel"`
	Href   string `json:"href"   yaml:"href"`
	Method string `json:"method" yaml:"method"`
}

// Record is one typed object as the backend returns it: a numeric id,
// hypermedia links, and the model fields. Fields the client has no
// static knowledge of are retained in Fields.
type Record struct {
	ID     int
	Links  []Link
	Fields map[string]any
}

// UnmarshalJSON splits the backend object into id, links, and the
// remaining model fields.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	if idRaw, ok := raw["id"]; ok {
		err = json.Unmarshal(idRaw, &r.ID)
		if err != nil {
			return fmt.Errorf("decoding record id: %w", err)
		}

		delete(raw, "id")
	}

	if linksRaw, ok := raw["_links"]; ok {
		err = json.Unmarshal(linksRaw, &r.Links)
		if err != nil {
			return fmt.Errorf("decoding record links: %w", err)
		}

		delete(raw, "_links")
	}

	r.Fields = make(map[string]any, len(raw))

	for key, value := range raw {
		var field any

		err = json.Unmarshal(value, &field)
		if err != nil {
			return fmt.Errorf("decoding record field %q: %w", key, err)
		}

		r.Fields[key] = field
	}

	return nil
}

// MarshalJSON reassembles the backend object form.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+2)
	for key, value := range r.Fields {
		out[key] = value
	}

	out["id"] = r.ID
	if len(r.Links) > 0 {
		out["_links"] = r.Links
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	return data, nil
}

// SessionObject is one record touched inside a session, as reported by
// commit and rollback summaries.
type SessionObject struct {
	Type string         `json:"TYPE" yaml:"type"`
	Data map[string]any `json:"DATA" yaml:"data"`
}

// Session summary groups reported by commit and rollback.
const (
	// ActionCreate groups records created in the session.
	ActionCreate = "CREATE"

	// ActionUpdate groups records updated in the session.
	ActionUpdate = "UPDATE"

	// ActionDelete groups records deleted in the session.
	ActionDelete = "DELETE"
)

// DecodeResult unmarshals the raw result into v.
func (e *Envelope) DecodeResult(v any) error {
	err := json.Unmarshal(e.Result, v)
	if err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}

	return nil
}

// Record decodes the result as a single record.
func (e *Envelope) Record() (*Record, error) {
	var record Record

	err := e.DecodeResult(&record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Records decodes the result as a list of records.
func (e *Envelope) Records() ([]Record, error) {
	var records []Record

	err := e.DecodeResult(&records)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// IDs extracts the record identifiers from a reference-list result.
func (e *Envelope) IDs() ([]int, error) {
	records, err := e.Records()
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}

	return ids, nil
}

// SessionID extracts the session identifier from a session-acquire
// response.
func (e *Envelope) SessionID() (string, error) {
	var result struct {
		SessionID string `json:"session_id"`
	}

	err := e.DecodeResult(&result)
	if err != nil {
		return "", err
	}

	if result.SessionID == "" {
		return "", ErrNoSessionID
	}

	return result.SessionID, nil
}

// SessionObjects decodes a commit or rollback summary: the records
// touched inside the session, grouped by the action applied to them
// (ActionCreate, ActionUpdate, ActionDelete).
func (e *Envelope) SessionObjects() (map[string][]SessionObject, error) {
	var result map[string][]SessionObject

	err := e.DecodeResult(&result)
	if err != nil {
		return nil, err
	}

	return result, nil
}
