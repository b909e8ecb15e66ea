package upload

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Result is the normalized outcome of an upload
type Result struct {
	Success    bool   `json:"success"`
	FilePath   string `json:"filePath"`
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	MimeType   string `json:"mimeType"`
	UploadedAt string `json:"uploadedAt"`
	ID         string `json:"id"`
}

// Field spellings seen in upload responses, probed in order.
var (
	pathKeys     = []string{"filePath", "file_path", "path", "url", "location"}
	nameKeys     = []string{"fileName", "file_name", "filename", "originalName", "name"}
	sizeKeys     = []string{"fileSize", "file_size", "size"}
	mimeKeys     = []string{"mimeType", "mime_type", "mimetype", "contentType", "type"}
	uploadedKeys = []string{"uploadedAt", "uploaded_at", "createdAt", "created_at"}
	idKeys       = []string{"id", "_id", "fileId", "file_id"}
)

// NormalizeResult maps an upload response onto Result. Fields are looked up
// in the nested "data" object first and then at the top level. The
// uploaded file's own name and size fill in anything the backend omits.
func NormalizeResult(raw []byte, f File) (Result, error) {
	res := Result{Success: true}

	var top map[string]any
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &top); err != nil {
			return res, fmt.Errorf("decoding upload response: %w", err)
		}
	}

	scopes := make([]map[string]any, 0, 2)
	if data, ok := top["data"].(map[string]any); ok {
		scopes = append(scopes, data)
	}
	if top != nil {
		scopes = append(scopes, top)
	}

	if v, ok := top["success"].(bool); ok {
		res.Success = v
	}
	res.FilePath = probeString(scopes, pathKeys)
	res.FileName = probeString(scopes, nameKeys)
	res.MimeType = probeString(scopes, mimeKeys)
	res.UploadedAt = probeString(scopes, uploadedKeys)
	res.ID = probeString(scopes, idKeys)
	res.FileSize = probeInt(scopes, sizeKeys)

	if res.FileName == "" {
		res.FileName = f.Name
	}
	if res.FileSize == 0 {
		res.FileSize = f.Size
	}
	if res.MimeType == "" {
		res.MimeType = f.ContentType
	}
	return res, nil
}

func probe(scopes []map[string]any, keys []string) (any, bool) {
	for _, scope := range scopes {
		for _, k := range keys {
			if v, ok := scope[k]; ok && v != nil && v != "" {
				return v, true
			}
		}
	}
	return nil, false
}

func probeString(scopes []map[string]any, keys []string) string {
	v, ok := probe(scopes, keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func probeInt(scopes []map[string]any, keys []string) int64 {
	v, ok := probe(scopes, keys)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	}
	return 0
}
