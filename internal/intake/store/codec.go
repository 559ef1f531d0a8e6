package store

import "encoding/json"

// Sessions are stored as JSON in both backends so a Redis dump can be read
// back by the in-memory store and the other way around.
func encode(v interface{}) ([]byte, error) { return json.Marshal(v) }

func decode(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
