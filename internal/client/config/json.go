package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/echoline/internal/flagx"
	"github.com/dmitrijs2005/echoline/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	StorageDSN         string         `json:"storage_dsn"`
	FeedPageLimit      int            `json:"feed_page_limit"`
	SuggestionsLimit   int            `json:"suggestions_limit"`
}

// parseJson overlays Config with values loaded from a JSON file whose path is
// given via -c or -config. Missing file path means nothing is loaded. Fields
// absent from the JSON keep their current values. Panics on read or unmarshal
// errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.StorageDSN != "" {
		cfg.StorageDSN = jc.StorageDSN
	}
	if jc.FeedPageLimit != 0 {
		cfg.FeedPageLimit = jc.FeedPageLimit
	}
	if jc.SuggestionsLimit != 0 {
		cfg.SuggestionsLimit = jc.SuggestionsLimit
	}
}
