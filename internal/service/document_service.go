// Package service coordinates document state: it owns the in-memory document
// registry, applies typed mutation commands, manages the roster and triggers
// application imports. Every mutation runs to completion before the next is
// accepted, and settlement is recomputed eagerly from a full snapshot.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/travel-settlement/internal/appsource"
	"github.com/garyjia/travel-settlement/internal/engine"
	"github.com/garyjia/travel-settlement/internal/models"
	"github.com/garyjia/travel-settlement/internal/reference"
)

var (
	// ErrDocumentNotFound is returned for an unknown document id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrImportInProgress is returned when an application import is already
	// running for the document; duplicate in-flight fetches are rejected.
	ErrImportInProgress = errors.New("application import already in progress")
	// ErrLastTraveler guards the roster-never-empties invariant.
	ErrLastTraveler = errors.New("cannot remove the last roster member")
	// ErrTravelerNotFound is returned for an unknown roster member.
	ErrTravelerNotFound = errors.New("traveler not found")
)

// DocumentService manages reimbursement documents and their derived
// settlement views.
type DocumentService struct {
	mu        sync.RWMutex
	documents map[string]*models.Document
	importing map[string]struct{}

	engine     *engine.Engine
	applier    *engine.Applier
	resolver   *engine.PerDiemResolver
	classifier *engine.Classifier
	currencies *reference.CurrencyTable
	source     appsource.Source
	logger     *zap.Logger
}

// NewDocumentService creates a document service.
func NewDocumentService(
	eng *engine.Engine,
	applier *engine.Applier,
	resolver *engine.PerDiemResolver,
	classifier *engine.Classifier,
	currencies *reference.CurrencyTable,
	source appsource.Source,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documents:  make(map[string]*models.Document),
		importing:  make(map[string]struct{}),
		engine:     eng,
		applier:    applier,
		resolver:   resolver,
		classifier: classifier,
		currencies: currencies,
		source:     source,
		logger:     logger,
	}
}

// CreateDocument creates a new reimbursement document with a single
// placeholder roster member, so the roster invariant holds from birth.
func (s *DocumentService) CreateDocument(reimburser string) *models.Document {
	now := time.Now()
	lead := models.Traveler{
		ID:     uuid.NewString(),
		Name:   reimburser,
		Level:  "P5",
		IsLead: true,
	}
	if lead.Name == "" {
		lead.Name = "新人员"
	}
	doc := &models.Document{
		ID: uuid.NewString(),
		Info: models.BasicInfo{
			DocNo:      fmt.Sprintf("INTL%s", now.Format("20060102150405")),
			DocDate:    now.Format("2006-01-02"),
			Reimburser: lead.Name,
		},
		Travelers: []models.Traveler{lead},
	}

	s.mu.Lock()
	s.documents[doc.ID] = doc
	s.mu.Unlock()

	s.logger.Info("document created",
		zap.String("document_id", doc.ID),
		zap.String("doc_no", doc.Info.DocNo))
	return doc.Clone()
}

// GetDocument returns a snapshot of the document.
func (s *DocumentService) GetDocument(id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

// ComputeSettlement derives the settlement view for the document.
func (s *DocumentService) ComputeSettlement(id string) (*models.SettlementView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return s.engine.ComputeSettlement(doc), nil
}

// ApplyCommand applies a typed mutation command and returns the updated
// snapshot.
func (s *DocumentService) ApplyCommand(id string, cmd engine.Command) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	if err := s.applier.Apply(doc, cmd); err != nil {
		return nil, fmt.Errorf("apply %s: %w", cmd.Name(), err)
	}
	s.logger.Debug("command applied",
		zap.String("document_id", id),
		zap.String("command", cmd.Name()))
	return doc.Clone(), nil
}

// ListApplications lists the application pool.
func (s *DocumentService) ListApplications(ctx context.Context) ([]appsource.Application, error) {
	return s.source.List(ctx)
}

// ImportApplication fetches an application and merges it into the document.
// A single fetch may be in flight per document; a concurrent duplicate is
// rejected with ErrImportInProgress rather than queued.
func (s *DocumentService) ImportApplication(ctx context.Context, docID, appID string) (*models.Document, error) {
	s.mu.Lock()
	if _, ok := s.documents[docID]; !ok {
		s.mu.Unlock()
		return nil, ErrDocumentNotFound
	}
	if _, busy := s.importing[docID]; busy {
		s.mu.Unlock()
		return nil, ErrImportInProgress
	}
	s.importing[docID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.importing, docID)
		s.mu.Unlock()
	}()

	app, err := s.source.Fetch(ctx, appID)
	if err != nil {
		s.logger.Error("application fetch failed",
			zap.String("document_id", docID),
			zap.String("application_id", appID),
			zap.Error(err))
		return nil, fmt.Errorf("fetch application %s: %w", appID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	appsource.Populate(doc, app, s.resolver, s.classifier)

	s.logger.Info("application imported",
		zap.String("document_id", docID),
		zap.String("application_id", appID),
		zap.Int("travelers", len(doc.Travelers)),
		zap.Int("segments", len(doc.Segments)))
	return doc.Clone(), nil
}

// AddTraveler adds a roster member, assigning an id when absent.
func (s *DocumentService) AddTraveler(docID string, t models.Traveler) (*models.Document, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Name == "" {
		t.Name = "新人员"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	doc.Travelers = append(doc.Travelers, t)
	return doc.Clone(), nil
}

// UpdateTraveler replaces the roster member with the same id.
func (s *DocumentService) UpdateTraveler(docID string, t models.Traveler) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	existing := doc.Traveler(t.ID)
	if existing == nil {
		return nil, ErrTravelerNotFound
	}
	*existing = t
	return doc.Clone(), nil
}

// RemoveTraveler removes a roster member and prunes them from every segment
// assignment. Removal is refused when they are the only member left.
func (s *DocumentService) RemoveTraveler(docID, travelerID string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	if len(doc.Travelers) <= 1 {
		return nil, ErrLastTraveler
	}
	if doc.Traveler(travelerID) == nil {
		return nil, ErrTravelerNotFound
	}

	kept := doc.Travelers[:0]
	for _, t := range doc.Travelers {
		if t.ID != travelerID {
			kept = append(kept, t)
		}
	}
	doc.Travelers = kept

	for i := range doc.Segments {
		seg := &doc.Segments[i]
		if seg.LeadTravelerID == travelerID {
			seg.LeadTravelerID = ""
		}
		ids := seg.TravelerIDs[:0]
		for _, id := range seg.TravelerIDs {
			if id != travelerID {
				ids = append(ids, id)
			}
		}
		seg.TravelerIDs = ids
	}
	return doc.Clone(), nil
}

// AddSegment appends a new trip segment seeded with default standards and the
// current roster lead.
func (s *DocumentService) AddSegment(docID string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	seg := models.TripSegment{
		ID:       s.nextRowID(doc),
		Days:     1,
		AreaTier: "Tier1",
		MealRate: engine.DefaultMealRate,
		MiscRate: engine.DefaultMiscRate,
	}
	if len(doc.Travelers) > 0 {
		seg.LeadTravelerID = doc.Travelers[0].ID
	}
	doc.Segments = append(doc.Segments, seg)
	return doc.Clone(), nil
}

// RemoveSegment deletes a trip segment.
func (s *DocumentService) RemoveSegment(docID string, segmentID int64) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	if doc.Segment(segmentID) == nil {
		return nil, engine.ErrSegmentNotFound
	}
	kept := doc.Segments[:0]
	for _, seg := range doc.Segments {
		if seg.ID != segmentID {
			kept = append(kept, seg)
		}
	}
	doc.Segments = kept
	return doc.Clone(), nil
}

// AddExpense appends an expense record, deriving the classified item, the
// home amount and the evidence flag from the supplied fields. Zero-valued
// defaults follow the manual-entry conventions: a personal meal expense in
// the reference currency, charged to the first roster member.
func (s *DocumentService) AddExpense(docID string, exp models.ExpenseRecord) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}

	exp.ID = s.nextRowID(doc)
	if exp.Source == "" {
		exp.Source = models.SourcePersonal
	}
	if exp.Category == "" {
		exp.Category = "餐饮"
		exp.Type = "工作餐"
	}
	if exp.Currency == "" {
		exp.Currency = "USD"
	}
	if exp.ExchangeRate == 0 {
		exp.ExchangeRate = s.currencies.Rate(exp.Currency)
	}
	if exp.Date == "" {
		exp.Date = doc.Info.DocDate
	}
	if len(doc.Travelers) > 0 {
		if exp.ConsumerID == "" {
			exp.ConsumerID = doc.Travelers[0].ID
		}
		if exp.PayeeID == "" {
			exp.PayeeID = doc.Travelers[0].ID
		}
	}
	exp.ExpenseItem = s.classifier.Classify(exp.Category)
	exp.HomeAmount = engine.Normalize(exp.OriginalAmount, exp.ExchangeRate)
	exp.Receipt = exp.HasEvidence()

	doc.Expenses = append(doc.Expenses, exp)
	return doc.Clone(), nil
}

// RemoveExpense deletes an expense record.
func (s *DocumentService) RemoveExpense(docID string, expenseID int64) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	if doc.Expense(expenseID) == nil {
		return nil, engine.ErrExpenseNotFound
	}
	kept := doc.Expenses[:0]
	for _, exp := range doc.Expenses {
		if exp.ID != expenseID {
			kept = append(kept, exp)
		}
	}
	doc.Expenses = kept
	return doc.Clone(), nil
}

// AddLoan appends a loan clearance, defaulting the borrower to the first
// roster member.
func (s *DocumentService) AddLoan(docID string, loan models.LoanClearance) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	loan.ID = s.nextRowID(doc)
	if loan.TravelerID == "" && len(doc.Travelers) > 0 {
		loan.TravelerID = doc.Travelers[0].ID
	}
	doc.Loans = append(doc.Loans, loan)
	return doc.Clone(), nil
}

// RemoveLoan deletes a loan clearance.
func (s *DocumentService) RemoveLoan(docID string, loanID int64) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	if doc.Loan(loanID) == nil {
		return nil, engine.ErrLoanNotFound
	}
	kept := doc.Loans[:0]
	for _, loan := range doc.Loans {
		if loan.ID != loanID {
			kept = append(kept, loan)
		}
	}
	doc.Loans = kept
	return doc.Clone(), nil
}

// nextRowID returns a row id greater than any in use on the document.
// Callers hold s.mu.
func (s *DocumentService) nextRowID(doc *models.Document) int64 {
	var max int64
	for _, seg := range doc.Segments {
		if seg.ID > max {
			max = seg.ID
		}
	}
	for _, exp := range doc.Expenses {
		if exp.ID > max {
			max = exp.ID
		}
	}
	for _, loan := range doc.Loans {
		if loan.ID > max {
			max = loan.ID
		}
	}
	return max + 1
}
