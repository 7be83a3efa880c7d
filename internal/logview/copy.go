package logview

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// copyPair is the Data/Headers copy shape: both directions side by side.
type copyPair struct {
	Request  interface{} `json:"request"`
	Response interface{} `json:"response"`
}

// copyDetection mirrors the formatted detection list shown in the pane.
type copyDetection struct {
	Pattern      string `json:"pattern"`
	Type         string `json:"type"`
	Original     string `json:"original"`
	Placeholder  string `json:"placeholder"`
	MessageIndex int    `json:"message_index"`
}

// CopyPayload serializes the active tab's content as indented text for the
// clipboard. Opaque fields that fail to parse are treated as empty objects;
// a failed detections fetch copies an empty list.
func (c *Card) CopyPayload() (string, error) {
	c.mu.Lock()
	primary := c.primary
	detections := c.detections
	c.mu.Unlock()

	var payload interface{}
	switch primary {
	case TabData:
		payload = copyPair{
			Request:  parseOrEmpty(c.record.RequestBody),
			Response: parseOrEmpty(c.record.ResponseBody),
		}
	case TabHeaders:
		payload = copyPair{
			Request:  parseOrEmpty(c.record.RequestHeaders),
			Response: parseOrEmpty(c.record.ResponseHeaders),
		}
	case TabDetections:
		list := make([]copyDetection, 0, len(detections))
		for _, d := range detections {
			list = append(list, copyDetection{
				Pattern:      d.PatternName,
				Type:         d.PatternType,
				Original:     d.OriginalValue,
				Placeholder:  d.Placeholder,
				MessageIndex: d.MessageIndex,
			})
		}
		payload = list
	default:
		return "", fmt.Errorf("invalid tab: %s", primary)
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		// Copy failures go to the diagnostic log, never to the view.
		log.Error().Err(err).Int64("record_id", c.record.ID).Msg("Failed to serialize copy payload")
		return "", err
	}
	return string(text), nil
}

func parseOrEmpty(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return map[string]interface{}{}
	}
	return v
}
