package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"tonearm/internal/metadata"
)

// submission is the on-disk shape of a release hand-off: golden metadata plus
// the supplied media assets. A file containing bare release fields (no
// "release" key) is accepted too.
type submission struct {
	Release *metadata.Release `json:"release"`
	Assets  *metadata.Assets  `json:"assets"`
}

func loadSubmission(path string) (*metadata.Release, *metadata.Assets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read submission: %w", err)
	}

	var sub submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, nil, fmt.Errorf("parse submission %s: %w", path, err)
	}
	if sub.Release == nil {
		var release metadata.Release
		if err := json.Unmarshal(data, &release); err != nil {
			return nil, nil, fmt.Errorf("parse submission %s: %w", path, err)
		}
		sub.Release = &release
	}
	if strings.TrimSpace(sub.Release.DisplayTitle()) == "" {
		return nil, nil, fmt.Errorf("submission %s carries no release title", path)
	}
	if sub.Assets == nil {
		sub.Assets = &metadata.Assets{}
	}
	return sub.Release, sub.Assets, nil
}
