package e2e

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abelbrown/hotnews/internal/devserver"
	"github.com/abelbrown/hotnews/internal/store"
)

// startDevServer serves the built-in catalog for the duration of the test.
func startDevServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := devserver.DefaultCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	r := gin.New()
	devserver.NewServer(catalog, nil).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// seedHistory records one manual query so the history list is not empty.
func seedHistory(dbPath, text string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = st.RecordQuery(store.Query{
		Text:      text,
		Origin:    store.OriginManual,
		SourceID:  "all",
		CreatedAt: time.Now().Add(-time.Minute),
	})
	return err
}

// readSnapshot drains whatever the pty has buffered.
func readSnapshot(f *os.File) string {
	if err := f.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return ""
	}
	out := make([]byte, 0, 8192)
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return string(out)
}
