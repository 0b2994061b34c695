package keyword

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/clausewise/internal/models"
)

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("empty query")

const (
	fieldDocumentID  = "document_id"
	fieldClauseIndex = "clause_index"
	fieldText        = "text"
	fieldType        = "type"
	fieldSeverity    = "severity"

	// deleteBatchSize bounds each lookup when removing a document's clauses.
	deleteBatchSize = 500
)

// BleveIndex implements ClauseIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists, the existing index is opened and reused.
// If you change the index mapping in code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	clauseMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (unicode tokenizer + lowercase, no stemming) handles
	// Devanagari as well as Latin text.
	textFieldMapping.Analyzer = standard.Name
	clauseMapping.AddFieldMappingsAt(fieldText, textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	clauseMapping.AddFieldMappingsAt(fieldDocumentID, keywordFieldMapping)
	clauseMapping.AddFieldMappingsAt(fieldType, keywordFieldMapping)
	clauseMapping.AddFieldMappingsAt(fieldSeverity, keywordFieldMapping)
	clauseMapping.AddFieldMappingsAt(fieldClauseIndex, bleve.NewNumericFieldMapping())
	im.AddDocumentMapping("clause", clauseMapping)
	im.DefaultType = "clause"
	im.DefaultMapping = clauseMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// ClauseID returns the index ID of clause n of a document.
func ClauseID(documentID string, n int) string {
	return documentID + "#" + strconv.Itoa(n)
}

// IndexReport drops the document's previous clauses and indexes the new ones in one batch.
func (b *BleveIndex) IndexReport(ctx context.Context, report *models.Report) error {
	if report == nil || report.Document == nil || report.Document.ID == "" {
		return fmt.Errorf("report without document id")
	}
	docID := report.Document.ID
	if err := b.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	batch := b.index.NewBatch()
	for _, c := range report.Clauses {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		doc := map[string]interface{}{
			fieldDocumentID:  docID,
			fieldClauseIndex: float64(c.Index),
			fieldText:        c.Text,
			fieldType:        string(c.Type),
			fieldSeverity:    string(c.Severity),
		}
		if err := batch.Index(ClauseID(docID, c.Index), doc); err != nil {
			return fmt.Errorf("failed to index clause %d: %w", c.Index, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to apply index batch: %w", err)
	}
	return nil
}

// Search runs a match query over clause text and returns up to limit hits.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*ClauseHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 10
	}
	var o SearchOptions
	if opts != nil {
		o = *opts
	}

	var q blevequery.Query
	if o.Fuzzy {
		fuzziness := o.Fuzziness
		if fuzziness <= 0 {
			fuzziness = 1
		}
		q = buildFuzzyQuery(query, fuzziness, fieldText)
	} else {
		mq := bleve.NewMatchQuery(query)
		mq.SetField(fieldText)
		q = mq
	}

	var filters []blevequery.Query
	if o.Type != "" {
		filters = append(filters, termQuery(fieldType, string(o.Type)))
	}
	if o.Severity != "" {
		filters = append(filters, termQuery(fieldSeverity, string(o.Severity)))
	}
	if len(filters) > 0 {
		q = bleve.NewConjunctionQuery(append([]blevequery.Query{q}, filters...)...)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{fieldDocumentID, fieldClauseIndex, fieldText, fieldType, fieldSeverity}
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*ClauseHit, len(results.Hits))
	for i, hit := range results.Hits {
		h := &ClauseHit{ID: hit.ID, Score: hit.Score}
		h.DocumentID, _ = hit.Fields[fieldDocumentID].(string)
		if n, ok := hit.Fields[fieldClauseIndex].(float64); ok {
			h.ClauseIndex = int(n)
		}
		h.Text, _ = hit.Fields[fieldText].(string)
		if s, ok := hit.Fields[fieldType].(string); ok {
			h.Type = models.ClauseType(s)
		}
		if s, ok := hit.Fields[fieldSeverity].(string); ok {
			h.Severity = models.Severity(s)
		}
		out[i] = h
	}
	return out, nil
}

func termQuery(field, term string) blevequery.Query {
	tq := bleve.NewTermQuery(term)
	tq.SetField(field)
	return tq
}

// tokenizeQuery splits query into lowercase terms, filtering out empty strings.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// buildFuzzyQuery creates a disjunction of FuzzyQueries for each term in the query.
func buildFuzzyQuery(queryStr string, fuzziness int, field string) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	if len(terms) == 1 {
		fq := bleve.NewFuzzyQuery(terms[0])
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		return fq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// DeleteDocument removes every clause indexed for documentID.
func (b *BleveIndex) DeleteDocument(ctx context.Context, documentID string) error {
	for {
		req := bleve.NewSearchRequest(termQuery(fieldDocumentID, documentID))
		req.Size = deleteBatchSize
		results, err := b.index.SearchInContext(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to find clauses of %s: %w", documentID, err)
		}
		if len(results.Hits) == 0 {
			return nil
		}
		batch := b.index.NewBatch()
		for _, hit := range results.Hits {
			batch.Delete(hit.ID)
		}
		if err := b.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to delete clauses of %s: %w", documentID, err)
		}
	}
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of clauses in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
