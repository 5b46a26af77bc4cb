package catalog

import (
	"encoding/json"
	"fmt"
)

// JSON field names used by the catalog.
const (
	FieldURN         = "ehs_urn_id"
	FieldGroup       = "ehs_group"
	FieldDomain      = "ehs_domain"
	FieldStartURL    = "ehs_start_url"
	FieldWaybackDate = "ehs_wayback_date"
	FieldGroupDate   = "wayback_date"
	FieldID          = "id"
	FieldSnapshots   = "snapshots"
)

// strippedSnapshotFields are dropped from every snapshot while reading.
// They are archival bookkeeping the viewer never displays.
var strippedSnapshotFields = []string{
	"ehs_archival_date",
	"ehs_harvest_date",
	"ehs_unit_sort",
	"index_time",
}

// strippedGroupFields are search-engine artifacts left by the fetcher.
var strippedGroupFields = []string{
	"_groupValue",
	"groupIndex",
}

// Snapshot is one archived capture of a web page.
//
// ID, Group, StartURL and WaybackDate are decoded from the record; every other
// field survives untouched in the raw field set and is written back by
// MarshalJSON. Filename is assigned by the screenshot matcher and is never
// serialized.
type Snapshot struct {
	ID          string
	Group       string
	StartURL    string
	WaybackDate Timestamp
	Filename    string

	fields map[string]json.RawMessage
}

// UnmarshalJSON decodes a snapshot record and drops the heavy fields.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, k := range strippedSnapshotFields {
		delete(fields, k)
	}

	*s = Snapshot{fields: fields}
	if err := decodeString(fields, FieldURN, &s.ID); err != nil {
		return err
	}
	if err := decodeString(fields, FieldGroup, &s.Group); err != nil {
		return err
	}
	if err := decodeString(fields, FieldStartURL, &s.StartURL); err != nil {
		return err
	}
	if raw, ok := fields[FieldWaybackDate]; ok {
		if err := s.WaybackDate.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("%s: %w", FieldWaybackDate, err)
		}
	}
	return nil
}

// MarshalJSON writes the retained fields of the record.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	if s.fields == nil {
		return json.Marshal(map[string]any{
			FieldURN:         s.ID,
			FieldGroup:       s.Group,
			FieldStartURL:    s.StartURL,
			FieldWaybackDate: s.WaybackDate,
		})
	}
	return json.Marshal(s.fields)
}

// Group is a domain-level collection of snapshots, in catalog order.
type Group struct {
	ID        string
	Key       string
	Domain    string
	Snapshots []*Snapshot

	fields map[string]json.RawMessage
}

// UnmarshalJSON decodes a group record together with its snapshots.
func (g *Group) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, k := range strippedGroupFields {
		delete(fields, k)
	}

	*g = Group{}
	if raw, ok := fields[FieldSnapshots]; ok {
		if err := json.Unmarshal(raw, &g.Snapshots); err != nil {
			return fmt.Errorf("%s: %w", FieldSnapshots, err)
		}
		delete(fields, FieldSnapshots)
	}
	g.fields = fields

	if err := decodeString(fields, FieldID, &g.ID); err != nil {
		return err
	}
	if err := decodeString(fields, FieldGroup, &g.Key); err != nil {
		return err
	}
	return decodeString(fields, FieldDomain, &g.Domain)
}

// MarshalJSON writes the retained group fields and the cleaned snapshots.
func (g *Group) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(g.fields)+1)
	for k, v := range g.fields {
		out[k] = v
	}
	if g.fields == nil {
		out[FieldID] = g.ID
		out[FieldGroup] = g.Key
		out[FieldDomain] = g.Domain
	}
	snapshots := g.Snapshots
	if snapshots == nil {
		snapshots = []*Snapshot{}
	}
	out[FieldSnapshots] = snapshots
	return json.Marshal(out)
}

// decodeString reads an optional string field. Numbers are accepted and kept
// in their literal form since search indexes are not consistent about ids.
func decodeString(fields map[string]json.RawMessage, key string, dst *string) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	switch x := v.(type) {
	case nil:
		*dst = ""
	case string:
		*dst = x
	case float64:
		*dst = string(raw)
	default:
		return fmt.Errorf("%s: unexpected %T", key, v)
	}
	return nil
}
