package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/domain/shared"
)

const maxMultipartMemory = 32 << 20

// readForm returns the submitted fields keyed by form input name. HTML
// forms are read as-is; JSON objects are flattened so that true becomes a
// checked checkbox and false an unchecked one.
func readForm(c *gin.Context) (url.Values, error) {
	ct := c.ContentType()
	switch {
	case ct == "application/json":
		return jsonForm(c)
	case strings.HasPrefix(ct, "multipart/"):
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, shared.ErrInvalidInput.WithMessage("invalid multipart form")
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, shared.ErrInvalidInput.WithMessage("invalid form body")
		}
	}
	return c.Request.PostForm, nil
}

func jsonForm(c *gin.Context) (url.Values, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("request body must be a JSON object")
	}

	form := make(url.Values, len(fields))
	for k, v := range fields {
		switch t := v.(type) {
		case nil:
			form.Set(k, "")
		case bool:
			if t {
				form.Set(k, "on")
			} else {
				form.Set(k, "")
			}
		case string:
			form.Set(k, t)
		case json.Number:
			form.Set(k, t.String())
		default:
			return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("field %q must be a scalar", k))
		}
	}
	return form, nil
}
