package matchids

import (
	"encoding/json"
	"fmt"
)

func decodeIDs(data json.RawMessage) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode match-id page: %w", err)
	}
	return ids, nil
}
