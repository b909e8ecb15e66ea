// Package testutil provides a fake master-data backend and HTTP helpers for
// tests across the console.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Envelope styles the fake backend wraps list responses in
const (
	EnvelopeNone   = ""
	EnvelopeData   = "data"
	EnvelopeResult = "result"
)

// RecordedRequest is one request seen by the fake backend
type RecordedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        []byte
}

// UploadedFile is a file stored by the fake upload endpoint
type UploadedFile struct {
	ID       string
	Name     string
	Category string
	Data     []byte
	MimeType string
}

type failure struct {
	method    string
	prefix    string
	status    int
	body      string
	remaining int // <0 means forever
}

// FakeBackend is an in-memory implementation of the master-data REST
// backend served over httptest.
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	tables   map[string][]map[string]any
	files    map[string]UploadedFile
	seq      int
	envelope string
	failures []failure
	requests []RecordedRequest
	delay    time.Duration
}

// NewFakeBackend starts a fake backend that is closed on test cleanup
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		tables:   make(map[string][]map[string]any),
		files:    make(map[string]UploadedFile),
		envelope: EnvelopeData,
	}

	engine := gin.New()
	engine.Use(f.record, f.inject)

	v1 := engine.Group("/api/v1")
	v1.GET("/get_master/:table", f.list)
	v1.GET("/get_master/:table/:id", f.get)
	v1.POST("/create_master", f.create)
	v1.PUT("/update_master/:id", f.update)
	v1.DELETE("/delete_master/:id/:table", f.deleteByPath)
	v1.DELETE("/delete_master/:id", f.deleteByQuery)
	v1.POST("/delete_master", f.deleteByBody)
	v1.POST("/masterupload", f.upload)
	v1.GET("/mastergetfile/:id", f.getFile)
	v1.DELETE("/mastergetfile/:id", f.deleteFile)

	legacy := engine.Group("/api/api/v1")
	legacy.GET("/users_list", f.listUsers)
	legacy.POST("/register", f.register)
	legacy.PATCH("/users/:id", f.patchUser)
	legacy.DELETE("/users/:id", f.deleteUser)

	f.Server = httptest.NewServer(engine)
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL returns the master-data base URL (origin + /api/v1)
func (f *FakeBackend) BaseURL() string {
	return f.Server.URL + "/api/v1"
}

// LegacyBaseURL returns the users module base URL
func (f *FakeBackend) LegacyBaseURL() string {
	return f.Server.URL + "/api/api/v1"
}

// SetEnvelope selects how list responses are wrapped
func (f *FakeBackend) SetEnvelope(envelope string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.envelope = envelope
}

// SetDelay makes every response wait d or until the request is cancelled
func (f *FakeBackend) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Seed appends records to table, assigning ids where missing
func (f *FakeBackend) Seed(table string, records ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		rec := cloneRecord(r)
		if _, ok := rec["id"]; !ok {
			rec["id"] = f.nextID(table)
		}
		f.tables[table] = append(f.tables[table], rec)
	}
}

// SeedFake appends n records whose name field is filled with fake data
func (f *FakeBackend) SeedFake(table, nameField string, n int) {
	for i := 0; i < n; i++ {
		f.Seed(table, map[string]any{
			nameField:  gofakeit.City(),
			"isActive": gofakeit.Bool(),
		})
	}
}

// Records returns a copy of the stored table
func (f *FakeBackend) Records(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, len(f.tables[table]))
	for i, r := range f.tables[table] {
		out[i] = cloneRecord(r)
	}
	return out
}

// Files returns the uploaded files by id
func (f *FakeBackend) Files() map[string]UploadedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]UploadedFile, len(f.files))
	for k, v := range f.files {
		out[k] = v
	}
	return out
}

// Fail makes every request matching method and path prefix (relative to
// the server root, e.g. "/api/v1/delete_master") answer status with body.
func (f *FakeBackend) Fail(method, prefix string, status int, body string) {
	f.addFailure(method, prefix, status, body, -1)
}

// FailOnce is Fail for the next matching request only
func (f *FakeBackend) FailOnce(method, prefix string, status int, body string) {
	f.addFailure(method, prefix, status, body, 1)
}

// ClearFailures removes all injected failures
func (f *FakeBackend) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = nil
}

func (f *FakeBackend) addFailure(method, prefix string, status int, body string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, failure{method: method, prefix: prefix, status: status, body: body, remaining: n})
}

// Requests returns every request seen so far
func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// CountRequests counts requests with method whose path starts with prefix
func (f *FakeBackend) CountRequests(method, prefix string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

func (f *FakeBackend) record(c *gin.Context) {
	var body []byte
	if !strings.HasPrefix(c.ContentType(), "multipart/") && c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}
	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Query:       c.Request.URL.RawQuery,
		ContentType: c.ContentType(),
		Body:        body,
	})
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
	}
	c.Next()
}

func (f *FakeBackend) inject(c *gin.Context) {
	f.mu.Lock()
	for i := range f.failures {
		fl := &f.failures[i]
		if fl.remaining == 0 || fl.method != c.Request.Method || !strings.HasPrefix(c.Request.URL.Path, fl.prefix) {
			continue
		}
		if fl.remaining > 0 {
			fl.remaining--
		}
		status, body := fl.status, fl.body
		f.mu.Unlock()
		c.Data(status, "application/json", []byte(body))
		c.Abort()
		return
	}
	f.mu.Unlock()
	c.Next()
}

func (f *FakeBackend) wrap(payload any) any {
	switch f.envelope {
	case EnvelopeData:
		return gin.H{"success": true, "data": payload}
	case EnvelopeResult:
		return gin.H{"status": "ok", "result": payload}
	default:
		return payload
	}
}

func (f *FakeBackend) list(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.tables[c.Param("table")]
	if rows == nil {
		rows = []map[string]any{}
	}
	c.JSON(http.StatusOK, f.wrap(rows))
}

func (f *FakeBackend) get(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, rec := f.find(c.Param("table"), c.Param("id"))
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

type masterBody struct {
	Tablename string         `json:"tablename"`
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
}

func (f *FakeBackend) create(c *gin.Context) {
	var body masterBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Tablename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "tablename and data are required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := cloneRecord(body.Data)
	rec["id"] = f.nextID(body.Tablename)
	f.tables[body.Tablename] = append(f.tables[body.Tablename], rec)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"id": rec["id"]}})
}

func (f *FakeBackend) update(c *gin.Context) {
	var body masterBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Tablename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "tablename and data are required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, rec := f.find(body.Tablename, c.Param("id"))
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "record not found"})
		return
	}
	for k, v := range body.Data {
		if k != "id" {
			rec[k] = v
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

func (f *FakeBackend) deleteByPath(c *gin.Context) {
	f.remove(c, c.Param("table"), c.Param("id"))
}

func (f *FakeBackend) deleteByQuery(c *gin.Context) {
	f.remove(c, c.Query("tablename"), c.Param("id"))
}

func (f *FakeBackend) deleteByBody(c *gin.Context) {
	var body masterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	f.remove(c, body.Tablename, body.ID)
}

func (f *FakeBackend) remove(c *gin.Context, table, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, _ := f.find(table, id)
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "record not found"})
		return
	}
	rows := f.tables[table]
	f.tables[table] = append(rows[:idx:idx], rows[idx+1:]...)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (f *FakeBackend) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()
	data, _ := io.ReadAll(src)

	f.mu.Lock()
	f.seq++
	id := fmt.Sprintf("file-%d", f.seq)
	uf := UploadedFile{
		ID:       id,
		Name:     fh.Filename,
		Category: c.PostForm("category"),
		Data:     data,
		MimeType: http.DetectContentType(data),
	}
	f.files[id] = uf
	f.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"_id":          id,
			"file_path":    "/api/v1/mastergetfile/" + id,
			"originalName": uf.Name,
			"size":         len(data),
			"mimetype":     uf.MimeType,
			"created_at":   "2024-01-02T03:04:05Z",
		},
	})
}

func (f *FakeBackend) getFile(c *gin.Context) {
	f.mu.Lock()
	uf, ok := f.files[c.Param("id")]
	f.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
		return
	}
	c.Data(http.StatusOK, uf.MimeType, uf.Data)
}

func (f *FakeBackend) deleteFile(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[c.Param("id")]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "file not found"})
		return
	}
	delete(f.files, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

const usersTable = "users"

func (f *FakeBackend) listUsers(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.tables[usersTable]
	if rows == nil {
		rows = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{"users": len(rows), "data": rows})
}

func (f *FakeBackend) register(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.tables[usersTable] {
		if u["email"] == body["email"] {
			c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
			return
		}
	}
	delete(body, "password")
	body["id"] = f.nextID(usersTable)
	f.tables[usersTable] = append(f.tables[usersTable], body)
	c.JSON(http.StatusCreated, body)
}

func (f *FakeBackend) patchUser(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, rec := f.find(usersTable, c.Param("id"))
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	for k, v := range patch {
		rec[k] = v
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (f *FakeBackend) deleteUser(c *gin.Context) {
	f.remove(c, usersTable, c.Param("id"))
}

// find must be called with f.mu held
func (f *FakeBackend) find(table, id string) (int, map[string]any) {
	for i, r := range f.tables[table] {
		if fmt.Sprint(r["id"]) == id {
			return i, r
		}
	}
	return -1, nil
}

// nextID must be called with f.mu held
func (f *FakeBackend) nextID(table string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", table, f.seq)
}

func cloneRecord(r map[string]any) map[string]any {
	out := make(map[string]any, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// DecodeBody unmarshals a recorded request body
func (r RecordedRequest) DecodeBody(v any) error {
	return json.Unmarshal(r.Body, v)
}
