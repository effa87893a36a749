package crumbs

import "encoding/json"

// ContentsMIME is the media type of a drag carrying item names from the
// current directory.
const ContentsMIME = "application/x-crumbbar-contents"

// MimeData maps media types to the ordered item names they carry.
type MimeData map[string][]string

// Has reports whether the payload declares mime.
func (m MimeData) Has(mime string) bool {
	_, ok := m[mime]
	return ok
}

// Items returns the names carried under mime.
func (m MimeData) Items(mime string) []string {
	return m[mime]
}

// EncodePayload serializes item names for a transfer as a JSON array, so
// names may hold any character, newlines included.
func EncodePayload(names []string) string {
	if names == nil {
		names = []string{}
	}
	data, _ := json.Marshal(names)
	return string(data)
}

// DecodePayload reverses EncodePayload. Malformed data and empty names are
// dropped.
func DecodePayload(data string) []string {
	var raw []string
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil
	}
	var names []string
	for _, n := range raw {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}
