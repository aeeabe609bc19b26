package reply

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Reply is the structured result of asking the dialogue service a
// question, or of a planned action firing. Presence of a field, not its
// value, licenses a side effect; optional fields are pointers so the
// dispatcher can tell "absent" from "zero".
type Reply struct {
	PlannedActions []PlannedAction `json:"planned_actions,omitempty"`
	Volume         *Volume         `json:"volume,omitempty"`
	MediaAction    *string         `json:"media_action,omitempty"`
	Stop           bool            `json:"-"`
	Answer         *string         `json:"answer,omitempty"`
	Language       *string         `json:"language,omitempty"`
	Identifier     *string         `json:"identifier,omitempty"`
	Table          *Table          `json:"table,omitempty"`
	RSS            *RSS            `json:"rss,omitempty"`
}

// Volume is a 0-100 percentage. The service sends it as either a JSON
// number or a quoted string.
type Volume int

func (v *Volume) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("volume: %w", err)
	}
	*v = Volume(n)
	return nil
}

// PlannedAction defers a Reply through the scheduler. PlanDelayMS comes
// from the service as-is; upstream sometimes sends 0 regardless of the
// intended fire date, and we do not second-guess it.
type PlannedAction struct {
	PlanDelayMS int64
	Payload     Reply
}

type Table struct {
	Head []string   `json:"head"`
	Data [][]string `json:"data"`
}

type RSS struct {
	Entities []Entity `json:"entities"`
	Count    int      `json:"count"`
}

type Entity struct {
	Title string `json:"title"`
}

// UnmarshalJSON keeps the planned action's full field set as its
// deferred payload while still reading plan_delay from the same object.
func (p *PlannedAction) UnmarshalJSON(data []byte) error {
	var delay struct {
		PlanDelayMS int64 `json:"plan_delay"`
	}
	if err := json.Unmarshal(data, &delay); err != nil {
		return fmt.Errorf("planned action delay: %w", err)
	}
	var payload Reply
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("planned action payload: %w", err)
	}
	p.PlanDelayMS = delay.PlanDelayMS
	p.Payload = payload
	return nil
}

// UnmarshalJSON treats stop as presence-only: any value under the key,
// including null or an object, counts.
func (r *Reply) UnmarshalJSON(data []byte) error {
	type plain Reply
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, p.Stop = keys["stop"]
	*r = Reply(p)
	return nil
}

func Parse(data []byte) (*Reply, error) {
	var r Reply
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse reply: %w", err)
	}
	return &r, nil
}
