package models

import "encoding/json"

// SnapshotKeyValue is a key-value pair frozen into a snapshot.
type SnapshotKeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SnapshotData is the serialized structure stored in Snapshot.SnapshotData.
// It captures the full item field set plus key-values; attachments are frozen
// separately as SnapshotBinary rows.
type SnapshotData struct {
	Title     string             `json:"title"`
	Username  string             `json:"username"`
	Password  string             `json:"password"`
	URL       string             `json:"url"`
	Note      string             `json:"note"`
	Tags      string             `json:"tags"`
	OtpSecret string             `json:"otpSecret"`
	KeyValues []SnapshotKeyValue `json:"keyValues"`
}

// NewSnapshotData builds the snapshot payload for an item state.
func NewSnapshotData(details ItemDetails, keyValues []KeyValue) SnapshotData {
	kvs := make([]SnapshotKeyValue, 0, len(keyValues))
	for _, kv := range keyValues {
		kvs = append(kvs, SnapshotKeyValue{Key: kv.Key, Value: kv.Value})
	}
	return SnapshotData{
		Title:     details.Title,
		Username:  details.Username,
		Password:  details.Password,
		URL:       details.URL,
		Note:      details.Note,
		Tags:      details.Tags,
		OtpSecret: details.OtpSecret,
		KeyValues: kvs,
	}
}

// Marshal serializes the snapshot payload to its stored JSON form.
func (d SnapshotData) Marshal() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalSnapshotData parses a stored snapshot payload.
func UnmarshalSnapshotData(s string) (SnapshotData, error) {
	var d SnapshotData
	err := json.Unmarshal([]byte(s), &d)
	return d, err
}
