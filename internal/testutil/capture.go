package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleCapture is a small OData session: two reads, a failed read and a
// $batch carrying two sub-requests.
const SampleCapture = `{"id":"r1","method":"GET","url":"https://svc.example/odata/Products?$top=5","status":200,"status_text":"OK","type":"xhr","size":2048,"duration_ms":41.5,"started":"2026-03-01T10:00:00Z"}
{"id":"r2","method":"GET","url":"https://svc.example/odata/Missing","status":404,"status_text":"Not Found","type":"xhr","size":120,"duration_ms":12,"started":"2026-03-01T10:00:01Z"}
{"id":"r3","method":"POST","url":"https://svc.example/odata/$batch","status":200,"status_text":"OK","type":"xhr","size":4096,"duration_ms":130,"started":"2026-03-01T10:00:02Z","batch":[{"id":"r3.1","method":"GET","url":"https://svc.example/odata/Orders","status":200,"size":900,"duration_ms":60},{"id":"r3.2","method":"PATCH","url":"https://svc.example/odata/Orders(7)","status":500,"size":80,"duration_ms":70}]}
{"id":"r4","method":"GET","url":"https://svc.example/odata/$metadata","status":200,"status_text":"OK","type":"fetch","size":15000,"duration_ms":1500,"started":"2026-03-01T10:00:03Z"}
`

// WriteCapture writes lines as a capture file in a temp dir and returns its
// path.
func WriteCapture(t testing.TB, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	content := strings.Join(lines, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}
	return path
}

// AppendCapture appends raw text to a capture file.
func AppendCapture(t testing.TB, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("failed to open capture: %v", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(text); err != nil {
		t.Fatalf("failed to append capture: %v", err)
	}
}
