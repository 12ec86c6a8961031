// SPDX-License-Identifier: MIT

package odoo

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockServer provides a configurable XML-RPC backend for testing. It answers
// the two endpoints the client uses with scripted responses and records every
// request body for assertions.
type MockServer struct {
	*httptest.Server
	mu           sync.Mutex
	authUID      int64 // 0 answers boolean false (rejected credentials)
	objectQueue  []string
	objectFault  string
	commonBodies []string
	objectBodies []string
}

// NewMockServer creates a mock backend with a valid uid preconfigured.
func NewMockServer() *MockServer {
	mock := &MockServer{authUID: 7}

	mux := http.NewServeMux()
	mux.HandleFunc("/xmlrpc/2/common", mock.handleCommon)
	mux.HandleFunc("/xmlrpc/2/object", mock.handleObject)

	mock.Server = httptest.NewServer(mux)
	return mock
}

// SetAuthUID scripts the uid returned by authenticate. Zero makes the mock
// answer boolean false, the backend's signal for rejected credentials.
func (m *MockServer) SetAuthUID(uid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authUID = uid
}

// EnqueueObjectValue queues one inner <value> XML fragment to be returned by
// the next execute_kw call.
func (m *MockServer) EnqueueObjectValue(valueXML string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objectQueue = append(m.objectQueue, valueXML)
}

// SetObjectFault makes every execute_kw call answer an XML-RPC fault with the
// given message.
func (m *MockServer) SetObjectFault(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objectFault = message
}

// ObjectBodies returns the raw request bodies seen by the object endpoint.
func (m *MockServer) ObjectBodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.objectBodies...)
}

// CommonBodies returns the raw request bodies seen by the common endpoint.
func (m *MockServer) CommonBodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.commonBodies...)
}

// MethodName extracts the methodName element from a recorded request body.
func MethodName(body string) string {
	var call struct {
		MethodName string `xml:"methodName"`
	}
	if err := xml.Unmarshal([]byte(body), &call); err != nil {
		return ""
	}
	return call.MethodName
}

func (m *MockServer) handleCommon(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.commonBodies = append(m.commonBodies, string(body))
	uid := m.authUID
	m.mu.Unlock()

	if uid == 0 {
		writeMethodResponse(w, "<boolean>0</boolean>")
		return
	}
	writeMethodResponse(w, fmt.Sprintf("<int>%d</int>", uid))
}

func (m *MockServer) handleObject(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.objectBodies = append(m.objectBodies, string(body))
	fault := m.objectFault
	var value string
	if len(m.objectQueue) > 0 {
		value = m.objectQueue[0]
		m.objectQueue = m.objectQueue[1:]
	}
	m.mu.Unlock()

	if fault != "" {
		writeFault(w, fault)
		return
	}
	if value == "" {
		value = "<boolean>1</boolean>"
	}
	writeMethodResponse(w, value)
}

func writeMethodResponse(w http.ResponseWriter, valueXML string) {
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0"?><methodResponse><params><param><value>%s</value></param></params></methodResponse>`, valueXML)
}

func writeFault(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0"?><methodResponse><fault><value><struct>`+
		`<member><name>faultCode</name><value><int>1</int></value></member>`+
		`<member><name>faultString</name><value><string>%s</string></value></member>`+
		`</struct></value></fault></methodResponse>`, message)
}
