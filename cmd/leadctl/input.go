package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"practice-automation/internal/leads"
	"practice-automation/internal/tasks"
)

// readLeads loads and classifies leads from path ("-" reads stdin).
func readLeads(path string) ([]leads.Lead, error) {
	if path == "" {
		return nil, errors.New("--file is required")
	}
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	in, err := decodeLeads(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range in {
		in[i] = in[i].Classify()
	}
	return in, nil
}

func decodeLeads(b []byte) ([]leads.Lead, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty leads file")
	}
	var out []leads.Lead
	if b[0] == '[' {
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var wrapped struct {
		Leads []leads.Lead `json:"leads"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Leads, nil
}

func newBuilder(tz, crmRecordURL string) (*tasks.Builder, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("--timezone: %w", err)
	}
	return tasks.NewBuilder(loc, crmRecordURL), nil
}
