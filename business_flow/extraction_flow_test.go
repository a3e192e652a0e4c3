package businessflow

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/lendwise/lendwise/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedOCR returns a fixed text or error from ExtractText
type scriptedOCR struct {
	text string
	err  error
}

func (s *scriptedOCR) ExtractText(ctx context.Context, storagePath, mimeType string) (string, error) {
	return s.text, s.err
}

func (s *scriptedOCR) Available() bool {
	return true
}

func newTestExtractionFlow(ocr *scriptedOCR, seed int64) *ExtractionFlowImpl {
	flow := &ExtractionFlowImpl{rng: rand.New(rand.NewSource(seed))}
	if ocr != nil {
		flow.ocr = ocr
	}
	return flow
}

func TestParseRevenueTokens(t *testing.T) {
	text := "Opening balance 1,25,000 on 03/01. Credit 450000 ref 123. Closing 98,000. Fee 250."
	values, count := parseRevenueTokens(text)

	// Tokens under four digits (dates, small fees, short refs) are discarded.
	require.Len(t, values, 3)
	assert.Equal(t, 3, count)
	assert.Equal(t, []float64{125000, 450000, 98000}, values)
}

func TestParseRevenueTokensEmptyText(t *testing.T) {
	values, count := parseRevenueTokens("no numbers here")
	assert.Empty(t, values)
	assert.Zero(t, count)
}

func TestExtractFromDocumentComputesSummary(t *testing.T) {
	ocr := &scriptedOCR{text: "Credits: 400,000 450,000 500,000 380,000"}
	flow := newTestExtractionFlow(ocr, 1)

	document := &models.Document{ID: 7, StoragePath: "/tmp/statement.pdf", MimeType: "application/pdf"}
	summary := flow.extractFromDocument(context.Background(), document, 450000)
	require.NotNil(t, summary)

	assert.Equal(t, 432500.0, summary.AvgMonthlyRevenue)
	assert.Equal(t, 500000.0, summary.HighestRevenue)
	assert.Equal(t, 380000.0, summary.LowestRevenue)
	assert.LessOrEqual(t, summary.LowestRevenue, summary.AvgMonthlyRevenue)
	assert.LessOrEqual(t, summary.AvgMonthlyRevenue, summary.HighestRevenue)
	assert.NoError(t, summary.Validate())
	require.NotNil(t, summary.RiskSummary)
	assert.Equal(t, "Extracted revenue aligns with declared figures.", *summary.RiskSummary)
}

func TestExtractFromDocumentFlagsDeclaredMismatch(t *testing.T) {
	// Declared revenue far above what the statement shows.
	ocr := &scriptedOCR{text: "Credits: 100,000 120,000 110,000"}
	flow := newTestExtractionFlow(ocr, 1)

	document := &models.Document{StoragePath: "/tmp/statement.pdf", MimeType: "application/pdf"}
	summary := flow.extractFromDocument(context.Background(), document, 800000)
	require.NotNil(t, summary)
	require.NotNil(t, summary.RiskSummary)
	assert.Equal(t, "Extracted revenue is below declared figures. Manual review recommended.", *summary.RiskSummary)
}

func TestExtractFromDocumentFallsBackOnOCRError(t *testing.T) {
	ocr := &scriptedOCR{err: errors.New("engine offline")}
	flow := newTestExtractionFlow(ocr, 1)

	document := &models.Document{StoragePath: "/tmp/statement.pdf", MimeType: "application/pdf"}
	assert.Nil(t, flow.extractFromDocument(context.Background(), document, 450000))
}

func TestExtractFromDocumentNeedsEnoughTokens(t *testing.T) {
	ocr := &scriptedOCR{text: "A single credit of 450,000 this month"}
	flow := newTestExtractionFlow(ocr, 1)

	document := &models.Document{StoragePath: "/tmp/statement.pdf", MimeType: "application/pdf"}
	assert.Nil(t, flow.extractFromDocument(context.Background(), document, 450000))
}

func TestExtractFromDocumentNilOCR(t *testing.T) {
	flow := newTestExtractionFlow(nil, 1)
	document := &models.Document{StoragePath: "/tmp/statement.pdf", MimeType: "application/pdf"}
	assert.Nil(t, flow.extractFromDocument(context.Background(), document, 450000))
}

func TestMockExtractionInvariants(t *testing.T) {
	flow := newTestExtractionFlow(nil, 42)

	for _, declared := range []float64{100000, 350000, 900000} {
		summary := flow.mockExtraction(declared)
		require.NotNil(t, summary)

		assert.LessOrEqual(t, summary.LowestRevenue, summary.AvgMonthlyRevenue)
		assert.LessOrEqual(t, summary.AvgMonthlyRevenue, summary.HighestRevenue)
		assert.InDelta(t, declared, summary.AvgMonthlyRevenue, declared*0.11)
		assert.Equal(t, summary.RevenueConsistency.Inverse(), summary.CashFlowVolatility)
		assert.NoError(t, summary.Validate())
		assert.GreaterOrEqual(t, summary.TransactionCount, 80)
		assert.NotNil(t, summary.RiskSummary)
	}
}

func TestMockExtractionLowRevenueIsInconsistent(t *testing.T) {
	flow := newTestExtractionFlow(nil, 7)
	summary := flow.mockExtraction(150000)
	assert.Equal(t, models.ConsistencyLow, summary.RevenueConsistency)
	assert.Equal(t, models.ConsistencyHigh, summary.CashFlowVolatility)
}
