// Package search mirrors stored intakes into an Elasticsearch index so
// operators can look them up by business, contact or goal.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"kokos-intake/internal/models"
)

// Document is the indexed view of one intake record.
type Document struct {
	RecordID           string                      `json:"recordId"`
	BusinessName       string                      `json:"businessName"`
	ContactPerson      string                      `json:"contactPerson"`
	ContactEmail       string                      `json:"contactEmail"`
	Phone              string                      `json:"phone"`
	Goal               string                      `json:"goal"`
	Status             string                      `json:"status"`
	SubmittedAt        time.Time                   `json:"submittedAt"`
	Answers            models.AnswerSet            `json:"answers"`
	ConditionalAnswers models.ConditionalAnswerSet `json:"conditionalAnswers,omitempty"`
}

// NewDocument builds the document for a stored record.
func NewDocument(rec models.IntakeRecord, payload models.SubmissionPayload) Document {
	return Document{
		RecordID:           rec.ID,
		BusinessName:       rec.BusinessName,
		ContactPerson:      payload.ContactPerson(),
		ContactEmail:       rec.ContactEmail,
		Phone:              payload.Phone(),
		Goal:               payload.Goal(),
		Status:             rec.Status,
		SubmittedAt:        rec.CreatedAt,
		Answers:            payload.Answers,
		ConditionalAnswers: payload.ConditionalAnswers,
	}
}

// Indexer stores documents for search.
type Indexer interface {
	Index(ctx context.Context, doc Document) error
	Name() string
}

// ElasticIndexer writes documents with the record id as document id, so a
// repeated call replaces rather than duplicates.
type ElasticIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticIndexer(client *elasticsearch.Client, index string) *ElasticIndexer {
	return &ElasticIndexer{client: client, index: index}
}

func (i *ElasticIndexer) Name() string { return i.index }

func (i *ElasticIndexer) Index(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: doc.RecordID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s rejected document: %s", i.index, res.Status())
	}
	return nil
}
