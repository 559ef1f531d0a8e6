package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kokos-intake/internal/models"
)

type indexCall struct {
	method string
	path   string
	body   map[string]interface{}
}

func newTestIndexer(t *testing.T, status int) (*ElasticIndexer, chan indexCall) {
	t.Helper()
	calls := make(chan indexCall, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, `{"version":{"number":"8.11.0"}}`)
			return
		}

		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls <- indexCall{method: r.Method, path: r.URL.Path, body: body}

		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  []string{srv.URL},
		MaxRetries: 1,
	})
	require.NoError(t, err)
	return NewElasticIndexer(client, "intakes"), calls
}

func sampleDocument() Document {
	payload := models.SubmissionPayload{
		Answers: models.AnswerSet{
			models.FieldBusinessName:  models.Text("Kahve Durağı"),
			models.FieldContactPerson: models.Text("Ayşe Kaya"),
			models.FieldEmail:         models.Text("ayse@kahve.example"),
			models.FieldPhone:         models.Text("+90 555 000 00 00"),
			models.FieldGoal:          models.List("Daha fazla satış"),
		},
		ConditionalAnswers: models.ConditionalAnswerSet{},
	}
	rec := models.IntakeRecord{
		ID:           "rec-1",
		BusinessName: "Kahve Durağı",
		ContactEmail: "ayse@kahve.example",
		Status:       models.IntakeStatusPending,
		CreatedAt:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	return NewDocument(rec, payload)
}

func TestNewDocument(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, "rec-1", doc.RecordID)
	assert.Equal(t, "Ayşe Kaya", doc.ContactPerson)
	assert.Equal(t, "+90 555 000 00 00", doc.Phone)
	assert.Equal(t, "Daha fazla satış", doc.Goal)
	assert.Equal(t, models.IntakeStatusPending, doc.Status)
}

func TestElasticIndexer_Index(t *testing.T) {
	idx, calls := newTestIndexer(t, http.StatusCreated)

	require.NoError(t, idx.Index(context.Background(), sampleDocument()))

	call := <-calls
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/intakes/_doc/rec-1", call.path)
	assert.Equal(t, "Kahve Durağı", call.body["businessName"])
	assert.Equal(t, "2025-03-14T09:30:00Z", call.body["submittedAt"])
	assert.Equal(t, "intakes", idx.Name())
}

func TestElasticIndexer_RejectedDocument(t *testing.T) {
	idx, _ := newTestIndexer(t, http.StatusBadRequest)

	err := idx.Index(context.Background(), sampleDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
